package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shouni/go-content-kit/pkg/domain"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig は OpenAI 互換エンドポイント用の設定です。
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAIModel は openai-go の Chat Completions を使った GenerativeModel の実装です。
// BaseURL を指定すれば OpenAI 互換のゲートウェイにも接続できるのだ。
type OpenAIModel struct {
	client openai.Client
}

// NewOpenAIModel は OpenAI クライアントを初期化します。
func NewOpenAIModel(cfg OpenAIConfig) (*OpenAIModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY", domain.ErrMissingCredential)
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIModel{client: openai.NewClient(opts...)}, nil
}

// GenerateContent は指示文と添付画像を1つのユーザーメッセージとして送信します。
func (o *OpenAIModel) GenerateContent(ctx context.Context, prompt domain.Prompt, model string) (*Response, error) {
	var msg openai.ChatCompletionMessageParamUnion
	if prompt.HasImage() {
		msg = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(prompt.Text),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURL(prompt.Image),
			}),
		})
	} else {
		msg = openai.UserMessage(prompt.Text)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{msg},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API (%s) の呼び出しに失敗しました: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: %w", domain.ErrEmptyResponse)
	}
	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, fmt.Errorf("openai: %w: 本文が空です (finish_reason=%s)", domain.ErrEmptyResponse, choice.FinishReason)
	}
	return &Response{Text: choice.Message.Content, Model: model}, nil
}

func dataURL(img *domain.Image) string {
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
