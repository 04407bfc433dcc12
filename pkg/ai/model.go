package ai

import (
	"context"

	"github.com/shouni/go-content-kit/pkg/domain"
)

// Response は生成モデルの返答です。構造化されていないテキストとして扱います。
type Response struct {
	Text  string
	Model string
}

// GenerativeModel は外部の生成モデルとの通信を抽象化するインターフェースなのだ。
// 画像付きのプロンプトでは、指示文のあとに画像を2つ目の入力として送ります。
type GenerativeModel interface {
	GenerateContent(ctx context.Context, prompt domain.Prompt, model string) (*Response, error)
}
