package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-content-kit/pkg/domain"
)

// TemplateData はプロンプトテンプレートに渡すデータ構造です。
type TemplateData struct {
	Topic string
}

// Composer は、バリアントごとの固定テンプレートとユーザー入力から指示文を組み立てます。
type Composer struct {
	templates map[domain.VariantID]*template.Template
}

// NewComposer は全バリアントのテンプレートを事前に解析して Composer を初期化するのだ。
// 解析や試し実行に失敗したテンプレートがあれば、この時点でエラーにします。
func NewComposer(variants []domain.Variant) (*Composer, error) {
	parsed := make(map[domain.VariantID]*template.Template, len(variants))
	for _, v := range variants {
		if v.PromptTemplate == "" {
			return nil, fmt.Errorf("バリアント '%s' のプロンプトテンプレートが空です", v.ID)
		}

		tmpl, err := template.New(string(v.ID)).Option("missingkey=error").Parse(v.PromptTemplate)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", v.ID, err)
		}
		if err := tmpl.Execute(&strings.Builder{}, TemplateData{}); err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の試し実行に失敗: %w", v.ID, err)
		}
		parsed[v.ID] = tmpl
	}

	return &Composer{templates: parsed}, nil
}

// Compose は指示文を生成します。
// テキストバリアントではトピックをテンプレート本文にそのまま埋め込み、
// 画像バリアントでは固定の指示文に画像を2つ目の入力として添付するのだ。
// 入力の有無は呼び出し側で確認済みであることが前提です。
// 未登録のバリアントはプログラムの誤りなので panic します。
func (c *Composer) Compose(v domain.Variant, in domain.UserInput) domain.Prompt {
	tmpl, ok := c.templates[v.ID]
	if !ok {
		panic(fmt.Sprintf("prompts: バリアント '%s' のテンプレートが登録されていません", v.ID))
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, TemplateData{Topic: in.Topic}); err != nil {
		panic(fmt.Sprintf("prompts: プロンプト '%s' の実行に失敗しました: %v", v.ID, err))
	}

	p := domain.Prompt{Text: sb.String()}
	if v.NeedsImage() {
		p.Image = in.Image
	}
	return p
}
