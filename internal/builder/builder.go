package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-content-kit/internal/config"

	"github.com/shouni/go-content-kit/pkg/ai"
	"github.com/shouni/go-content-kit/pkg/prompts"
	"github.com/shouni/go-content-kit/pkg/publisher"
	"github.com/shouni/go-content-kit/pkg/registry"
	"github.com/shouni/go-content-kit/pkg/runner"
	"github.com/shouni/go-content-kit/pkg/store"
)

// BuildAppContext は設定から全コンポーネントを組み立てて AppContext を返すのだ。
// モデルクライアントはここで一度だけ生成し、以降は明示的に渡します。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg, err := registry.Load(registry.Models{Text: cfg.TextModel, Vision: cfg.VisionModel})
	if err != nil {
		return nil, fmt.Errorf("バリアント定義の読み込みに失敗しました: %w", err)
	}

	aiClient, err := InitializeAIClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reportRunner, err := BuildReportRunner(reg, aiClient)
	if err != nil {
		return nil, err
	}

	appCtx := NewAppContext(
		cfg,
		reg,
		aiClient,
		reportRunner,
		store.NewReportStore(cfg.ReportTTL),
		publisher.NewFilePublisher(cfg.Options.OutputDir),
	)
	return &appCtx, nil
}

// BuildReportRunner は Composer と Assembler を初期化して ReportRunner を構築します。
func BuildReportRunner(reg *registry.Registry, aiClient ai.GenerativeModel) (*runner.ReportRunner, error) {
	variants := reg.All()

	composer, err := prompts.NewComposer(variants)
	if err != nil {
		return nil, fmt.Errorf("Composerの初期化に失敗しました: %w", err)
	}
	assembler, err := publisher.NewAssembler(variants)
	if err != nil {
		return nil, fmt.Errorf("Assemblerの初期化に失敗しました: %w", err)
	}

	return runner.NewReportRunner(composer, aiClient, publisher.NewMarkdownRenderer(), assembler), nil
}

// InitializeAIClient はプロバイダーに応じた生成モデルクライアントを初期化し、レート制限を掛けます。
func InitializeAIClient(ctx context.Context, cfg *config.Config) (ai.GenerativeModel, error) {
	var (
		client ai.GenerativeModel
		err    error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err = ai.NewGeminiModel(ctx, ai.GeminiConfig{APIKey: cfg.GeminiAPIKey})
	case config.ProviderOpenAI:
		// OpenAI 互換のゲートウェイを使う場合は OPENAI_BASE_URL を指定するのだ
		client, err = ai.NewOpenAIModel(ai.OpenAIConfig{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL})
	case config.ProviderMock:
		slog.Warn("Mock provider selected; no external model will be called")
		client = &ai.MockModel{}
	default:
		return nil, fmt.Errorf("プロバイダー '%s' はサポートされていません", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	return ai.NewRateLimitedModel(client, cfg.RateInterval, config.DefaultRateBurst), nil
}
