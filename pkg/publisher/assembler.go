package publisher

import (
	_ "embed"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/shouni/go-content-kit/pkg/domain"
)

//go:embed layout.html
var layoutHTML string

// slotMarker はシェル内の唯一の挿入位置を示す目印です。
const slotMarker = "<!--report-fragment-->"

type layoutData struct {
	Theme domain.Theme
	Slot  string
}

// shell はレイアウトを挿入位置で前後に分割した静的な HTML なのだ。
type shell struct {
	prefix string
	suffix string
}

// Assembler は、バリアントごとの HTML/CSS シェルにフラグメントを差し込んで最終文書を作ります。
type Assembler struct {
	shells map[domain.VariantID]shell
}

// NewAssembler は全バリアントのシェルを事前に描画して Assembler を初期化します。
func NewAssembler(variants []domain.Variant) (*Assembler, error) {
	layout, err := template.New("layout").Parse(layoutHTML)
	if err != nil {
		return nil, fmt.Errorf("シェルレイアウトの解析に失敗しました: %w", err)
	}

	shells := make(map[domain.VariantID]shell, len(variants))
	for _, v := range variants {
		var sb strings.Builder
		if err := layout.Execute(&sb, layoutData{Theme: v.Theme, Slot: slotMarker}); err != nil {
			return nil, fmt.Errorf("バリアント '%s' のシェル描画に失敗しました: %w", v.ID, err)
		}
		rendered := sb.String()
		if n := strings.Count(rendered, slotMarker); n != 1 {
			return nil, fmt.Errorf("バリアント '%s' のシェルに挿入位置が %d 個あります", v.ID, n)
		}
		prefix, suffix, _ := strings.Cut(rendered, slotMarker)
		shells[v.ID] = shell{prefix: prefix, suffix: suffix}
	}

	return &Assembler{shells: shells}, nil
}

// Assemble はフラグメントをエスケープせずにシェルの挿入位置へそのまま埋め込むのだ。
// 未登録のバリアントはプログラムの誤りなので panic します。
func (a *Assembler) Assemble(v domain.Variant, fragment string) domain.ReportDocument {
	sh, ok := a.shells[v.ID]
	if !ok {
		panic(fmt.Sprintf("publisher: バリアント '%s' のシェルが登録されていません", v.ID))
	}

	var sb strings.Builder
	sb.Grow(len(sh.prefix) + len(fragment) + len(sh.suffix))
	sb.WriteString(sh.prefix)
	sb.WriteString(fragment)
	sb.WriteString(sh.suffix)

	return domain.ReportDocument{
		Variant:  v.ID,
		HTML:     sb.String(),
		Filename: v.Filename,
		MimeType: v.MimeType,
		BOM:      v.BOM,
	}
}

// ErrorFragment は外部呼び出しの失敗をレポートの位置に表示するためのフラグメントです。
// エラー文はモデル出力ではないのでエスケープします。
func ErrorFragment(err error) string {
	msg := "알 수 없는 오류"
	if err != nil {
		msg = err.Error()
	}
	return `<div class="report-error"><strong>⚠️ 에러 발생: 리포트를 생성하지 못했습니다.</strong>` +
		`<pre>` + html.EscapeString(msg) + `</pre></div>`
}
