package publisher

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer は、Markdown で返答するバリアントの出力を HTML フラグメントに変換します。
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer は GFM 拡張とハードラップを有効にしたレンダラーを返すのだ。
// モデル出力に含まれる生の HTML はそのまま残します。
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
	}
}

// Render は Markdown 文字列を HTML フラグメントへ変換します。
func (r *MarkdownRenderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("MarkdownからHTMLへの変換に失敗しました: %w", err)
	}
	return buf.String(), nil
}
