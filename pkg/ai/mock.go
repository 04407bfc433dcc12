package ai

import (
	"context"
	"strings"
	"sync"

	"github.com/shouni/go-content-kit/pkg/domain"
)

// MockModel は外部モデルを呼ばない GenerativeModel の実装です。
// ローカルでの動作確認やテストで使うのだ。
type MockModel struct {
	// Reply が空でなければ、常にこの文字列を返します。
	Reply string
	// Err が設定されていれば、常にこのエラーを返します。
	Err error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall は MockModel が受け取った1回分の呼び出しです。
type MockCall struct {
	Prompt domain.Prompt
	Model  string
}

func (m *MockModel) GenerateContent(ctx context.Context, prompt domain.Prompt, model string) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, Model: model})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Reply != "" {
		return &Response{Text: m.Reply, Model: model}, nil
	}
	return &Response{Text: sampleReply(prompt), Model: model}, nil
}

// Calls はこれまでの呼び出し履歴のコピーを返します。
func (m *MockModel) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// sampleReply はモデルが返しがちな、フェンス付きの返答を模倣するのだ。
func sampleReply(prompt domain.Prompt) string {
	var sb strings.Builder
	if prompt.HasImage() {
		sb.WriteString("```html\n")
		sb.WriteString(`<div class="magazine-report">`)
		sb.WriteString("<h2>샘플 리포트</h2>")
		sb.WriteString("<p>이 리포트는 로컬 확인용 샘플입니다. 실제 모델은 호출되지 않았습니다.</p>")
		sb.WriteString("</div>\n```\n")
		return sb.String()
	}
	sb.WriteString("## [워드프레스 블로그]\n샘플 블로그 본문입니다.\n\n")
	sb.WriteString("## [틱톡/쇼츠 대본]\n[TTS용] 샘플 대본입니다.\n\n")
	sb.WriteString("## [뉴스레터]\n샘플 모닝 브리핑입니다.\n\n")
	sb.WriteString("```\n")
	sb.WriteString(strings.TrimSpace(prompt.Text))
	sb.WriteString("\n```\n")
	return sb.String()
}
