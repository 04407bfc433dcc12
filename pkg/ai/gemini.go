package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/go-content-kit/pkg/domain"

	"google.golang.org/genai"
)

// DefaultTemperature は生成時のデフォルト温度です。
const DefaultTemperature = float32(0.7)

// GeminiConfig は Gemini クライアントの初期化に必要な設定です。
type GeminiConfig struct {
	APIKey      string
	BaseURL     string // 空なら公式エンドポイント
	Temperature *float32
}

// GeminiModel は google.golang.org/genai を使った GenerativeModel の実装なのだ。
type GeminiModel struct {
	client *genai.Client
	config *genai.GenerateContentConfig
}

// NewGeminiModel は Gemini API 用のクライアントを初期化します。
func NewGeminiModel(ctx context.Context, cfg GeminiConfig) (*GeminiModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY", domain.ErrMissingCredential)
	}
	temperature := cfg.Temperature
	if temperature == nil {
		temperature = genai.Ptr(DefaultTemperature)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	return &GeminiModel{
		client: client,
		config: &genai.GenerateContentConfig{Temperature: temperature},
	}, nil
}

// GenerateContent はプロンプト（と添付画像）を1回だけ送信し、返答テキストを返すのだ。
func (g *GeminiModel) GenerateContent(ctx context.Context, prompt domain.Prompt, model string) (*Response, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt.Text)}
	if prompt.HasImage() {
		parts = append(parts, genai.NewPartFromBytes(prompt.Image.Data, prompt.Image.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, g.config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API (%s) の呼び出しに失敗しました: %w", model, err)
	}
	text, err := replyText(resp)
	if err != nil {
		return nil, fmt.Errorf("Gemini API (%s): %w", model, err)
	}
	return &Response{Text: text, Model: model}, nil
}

// replyText は返答から本文を取り出すのだ。
// ブロックされた場合や候補・本文が空の場合は domain.ErrEmptyResponse を返します。
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: プロンプトがブロックされました (block_reason=%s)", domain.ErrEmptyResponse, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: 候補が返されませんでした", domain.ErrEmptyResponse)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: 本文が空です (finish_reason=%s)", domain.ErrEmptyResponse, resp.Candidates[0].FinishReason)
	}
	return text, nil
}
