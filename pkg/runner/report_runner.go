package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-content-kit/pkg/ai"
	"github.com/shouni/go-content-kit/pkg/domain"
	"github.com/shouni/go-content-kit/pkg/prompts"
	"github.com/shouni/go-content-kit/pkg/publisher"
	"github.com/shouni/go-content-kit/pkg/sanitize"
)

// Result は1リクエスト分の実行結果です。
// 失敗した場合でも Report にはエラー表示を埋め込んだ文書が入り、Err に原因が残ります。
type Result struct {
	Report  domain.ReportDocument
	Err     error
	Elapsed time.Duration
}

// Failed は外部呼び出しが失敗したかどうかを返すのだ。
func (r Result) Failed() bool {
	return r.Err != nil
}

// ReportRunner は compose → 外部呼び出し → sanitize → assemble を1回だけ順に実行します。
// リトライやキャンセル時の部分結果の扱いはありません。
type ReportRunner struct {
	composer  *prompts.Composer
	aiClient  ai.GenerativeModel
	markdown  *publisher.MarkdownRenderer
	assembler *publisher.Assembler
}

// NewReportRunner は依存関係を注入して ReportRunner を初期化します。
func NewReportRunner(
	composer *prompts.Composer,
	aiClient ai.GenerativeModel,
	markdown *publisher.MarkdownRenderer,
	assembler *publisher.Assembler,
) *ReportRunner {
	return &ReportRunner{
		composer:  composer,
		aiClient:  aiClient,
		markdown:  markdown,
		assembler: assembler,
	}
}

// Run はバリアントと入力からレポート文書を生成するのだ。
// 入力の有無は呼び出し側で domain.Variant.CheckInput により確認済みであることが前提です。
// どのバリアントでも、失敗時は同じ形式のエラー表示に置き換えます。
func (rr *ReportRunner) Run(ctx context.Context, v domain.Variant, in domain.UserInput) Result {
	start := time.Now()

	fragment, err := rr.generateFragment(ctx, v, in)
	if err != nil {
		slog.ErrorContext(ctx, "Report generation failed",
			slog.String("variant", string(v.ID)),
			slog.String("model", v.Model),
			slog.Any("error", err),
		)
		return Result{
			Report:  rr.assembler.Assemble(v, publisher.ErrorFragment(err)),
			Err:     err,
			Elapsed: time.Since(start),
		}
	}

	res := Result{
		Report:  rr.assembler.Assemble(v, fragment),
		Elapsed: time.Since(start),
	}
	slog.InfoContext(ctx, "Report generated",
		slog.String("variant", string(v.ID)),
		slog.String("model", v.Model),
		slog.Int("fragment_len", len(fragment)),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res
}

func (rr *ReportRunner) generateFragment(ctx context.Context, v domain.Variant, in domain.UserInput) (string, error) {
	prompt := rr.composer.Compose(v, in)

	resp, err := rr.aiClient.GenerateContent(ctx, prompt, v.Model)
	if err != nil {
		return "", fmt.Errorf("レポートの生成に失敗しました: %w", err)
	}

	fragment := sanitize.Fragment(resp.Text)
	if v.Output == domain.OutputMarkdown {
		fragment, err = rr.markdown.Render(fragment)
		if err != nil {
			return "", err
		}
	}
	return fragment, nil
}
