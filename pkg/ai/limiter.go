package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-content-kit/pkg/domain"

	"golang.org/x/time/rate"
)

// RateLimitedModel は外部 API のクォータを守るため、呼び出し間隔を制限するラッパーなのだ。
// リトライやバックオフは行いません。
type RateLimitedModel struct {
	next    GenerativeModel
	limiter *rate.Limiter
}

// NewRateLimitedModel は interval ごとに1回（最大 burst 回まで連続）の呼び出しを許可します。
// interval が0以下なら制限せずに next をそのまま返します。
func NewRateLimitedModel(next GenerativeModel, interval time.Duration, burst int) GenerativeModel {
	if interval <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedModel{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

func (m *RateLimitedModel) GenerateContent(ctx context.Context, prompt domain.Prompt, model string) (*Response, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("レート制限の待機中に中断されました: %w", err)
	}
	return m.next.GenerateContent(ctx, prompt, model)
}
