package registry

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/shouni/go-content-kit/pkg/domain"
)

var testModels = Models{Text: "gemini-2.5-flash", Vision: "gemini-2.5-pro"}

func TestLoad_EmbeddedVariants(t *testing.T) {
	r, err := Load(testModels)
	if err != nil {
		t.Fatalf("埋め込み定義のロードに失敗したのだ: %v", err)
	}

	all := r.All()
	if len(all) < 6 {
		t.Fatalf("バリアントは6つ以上必要なのだ: %d", len(all))
	}
	if all[0].ID != domain.MultiChannelContent {
		t.Errorf("定義順が保たれていないのだ: %s", all[0].ID)
	}

	ids := []domain.VariantID{
		domain.MultiChannelContent,
		domain.MagazineReportLong,
		domain.MagazineReportShort,
		domain.MagazineReportColorDiagnosis,
		domain.CompactDiagnosis,
		domain.KoreanOnlyMagazine,
	}
	filenames := make(map[string]bool)
	for _, id := range ids {
		v, ok := r.Lookup(id)
		if !ok {
			t.Fatalf("バリアント %s が登録されていないのだ", id)
		}
		if v.MimeType != "text/html" {
			t.Errorf("%s のMIMEタイプが違うのだ: %s", id, v.MimeType)
		}
		if !strings.HasSuffix(v.Filename, ".html") {
			t.Errorf("%s のファイル名が .html ではないのだ: %s", id, v.Filename)
		}
		if filenames[v.Filename] {
			t.Errorf("ファイル名 %s が重複しているのだ", v.Filename)
		}
		filenames[v.Filename] = true
		if v.Theme.FontFamily == "" {
			t.Errorf("%s のフォントがデフォルトで補完されていないのだ", id)
		}
	}
}

func TestLoad_ModelsByInputKind(t *testing.T) {
	r, err := Load(testModels)
	if err != nil {
		t.Fatal(err)
	}
	text, _ := r.Lookup(domain.MultiChannelContent)
	if text.Model != testModels.Text || text.NeedsImage() {
		t.Errorf("テキストバリアントのモデルが違うのだ: %s", text.Model)
	}
	img, _ := r.Lookup(domain.MagazineReportColorDiagnosis)
	if img.Model != testModels.Vision || !img.NeedsImage() {
		t.Errorf("画像バリアントのモデルが違うのだ: %s", img.Model)
	}
}

func TestLoad_ImagePromptsDemandWrapperElement(t *testing.T) {
	r, err := Load(testModels)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range r.All() {
		if !v.NeedsImage() {
			continue
		}
		if !strings.Contains(v.PromptTemplate, "로 시작하는 HTML 조각만 출력해") {
			t.Errorf("%s のプロンプトにラッパー要素の指示が無いのだ", v.ID)
		}
	}
}

func TestGet_UnknownVariant(t *testing.T) {
	r, err := Load(testModels)
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Get("no_such_variant")
	if !errors.Is(err, domain.ErrUnknownVariant) {
		t.Errorf("ErrUnknownVariant を返していないのだ: %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	templates := fstest.MapFS{
		"templates/a.md": {Data: []byte("주제: {{.Topic}}")},
	}

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "バリアントが空",
			yaml: "variants: []\n",
		},
		{
			name: "テンプレートが存在しない",
			yaml: "variants:\n  - {id: a, input: topic, output: markdown, prompt: missing.md, filename: a.html}\n",
		},
		{
			name: "IDが重複",
			yaml: "variants:\n" +
				"  - {id: a, input: topic, output: markdown, prompt: a.md, filename: a.html}\n" +
				"  - {id: a, input: topic, output: markdown, prompt: a.md, filename: b.html}\n",
		},
		{
			name: "未知のフィールド",
			yaml: "variants:\n  - {id: a, input: topic, output: markdown, prompt: a.md, filename: a.html, colour: red}\n",
		},
		{
			name: "入力種別が不正",
			yaml: "variants:\n  - {id: a, input: video, output: markdown, prompt: a.md, filename: a.html}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml), templates, testModels); err == nil {
				t.Error("エラーになるはずなのだ")
			}
		})
	}
}

func TestParse_ExplicitModelWins(t *testing.T) {
	templates := fstest.MapFS{
		"templates/a.md": {Data: []byte("fixed")},
	}
	yml := "variants:\n  - {id: a, input: image, output: html, model: custom-model, prompt: a.md, filename: a.html}\n"
	r, err := Parse([]byte(yml), templates, testModels)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := r.Lookup("a")
	if v.Model != "custom-model" {
		t.Errorf("明示したモデルが使われていないのだ: %s", v.Model)
	}
	if v.MimeType != "text/html" {
		t.Errorf("MIMEタイプのデフォルトが効いていないのだ: %s", v.MimeType)
	}
}
