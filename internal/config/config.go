package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-content-kit/pkg/domain"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultProvider       = ProviderGemini
	DefaultTextModel      = "gemini-2.5-flash"
	DefaultVisionModel    = "gemini-2.5-pro"
	DefaultServerAddr     = ":8080"
	DefaultOutputDir      = "output"
	DefaultRateInterval   = 2 * time.Second
	DefaultRateBurst      = 2
	DefaultReportTTL      = 30 * time.Minute
	DefaultRequestTimeout = 120 * time.Second
	DefaultTopic          = "식후 커피가 영양제 흡수를 방해하는 이유"
)

// 対応しているモデルプロバイダーです。
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル設定）を保持する構造体なのだ。
type Config struct {
	Provider      string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	TextModel   string
	VisionModel string

	ServerAddr     string
	RateInterval   time.Duration
	ReportTTL      time.Duration
	RequestTimeout time.Duration

	Options GenerateOptions
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	Variant   string // --variant
	Topic     string // --topic
	ImageFile string // --image
	OutputDir string // --output-dir
	Verbose   bool   // --verbose
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		Provider:       strings.ToLower(envutil.GetEnv("AI_PROVIDER", DefaultProvider)),
		GeminiAPIKey:   strings.TrimSpace(envutil.GetEnv("GEMINI_API_KEY", "")),
		OpenAIAPIKey:   strings.TrimSpace(envutil.GetEnv("OPENAI_API_KEY", "")),
		OpenAIBaseURL:  envutil.GetEnv("OPENAI_BASE_URL", ""),
		TextModel:      envutil.GetEnv("GEMINI_MODEL", DefaultTextModel),
		VisionModel:    envutil.GetEnv("GEMINI_VISION_MODEL", DefaultVisionModel),
		ServerAddr:     envutil.GetEnv("SERVER_ADDR", DefaultServerAddr),
		RateInterval:   durationEnv("AI_RATE_INTERVAL", DefaultRateInterval),
		ReportTTL:      durationEnv("REPORT_TTL", DefaultReportTTL),
		RequestTimeout: durationEnv("AI_REQUEST_TIMEOUT", DefaultRequestTimeout),
		Options: GenerateOptions{
			OutputDir: DefaultOutputDir,
		},
	}
}

// Validate は、選択されたプロバイダーに必要なクレデンシャルが揃っているかを確認します。
// 不足している場合は domain.ErrMissingCredential をラップして返すのだ。
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ", domain.ErrMissingCredential)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: 環境変数 OPENAI_API_KEY が設定されていません", domain.ErrMissingCredential)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("プロバイダー '%s' はサポートされていません（gemini, openai, mock）", c.Provider)
	}
	if c.TextModel == "" || c.VisionModel == "" {
		return fmt.Errorf("テキスト用と画像用のモデル名は必須です")
	}
	return nil
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", def),
		)
		return def
	}
	return d
}
