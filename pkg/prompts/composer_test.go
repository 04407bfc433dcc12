package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-content-kit/pkg/domain"
	"github.com/shouni/go-content-kit/pkg/registry"
)

func newTestComposer(t *testing.T) (*Composer, *registry.Registry) {
	t.Helper()
	reg, err := registry.Load(registry.Models{Text: "text-model", Vision: "vision-model"})
	if err != nil {
		t.Fatalf("レジストリのロードに失敗したのだ: %v", err)
	}
	c, err := NewComposer(reg.All())
	if err != nil {
		t.Fatalf("Composerの初期化に失敗したのだ: %v", err)
	}
	return c, reg
}

func TestCompose_MultiChannelContent(t *testing.T) {
	c, reg := newTestComposer(t)
	v, _ := reg.Lookup(domain.MultiChannelContent)

	topic := "식후 커피가 영양제 흡수를 방해하는 이유"
	p := c.Compose(v, domain.TopicInput(topic))

	if !strings.Contains(p.Text, topic) {
		t.Errorf("トピックがそのまま含まれていないのだ: %s", p.Text)
	}
	for _, marker := range []string{"[워드프레스 블로그]", "[틱톡/쇼츠 대본]", "[뉴스레터]"} {
		if !strings.Contains(p.Text, marker) {
			t.Errorf("セクションマーカー %s が含まれていないのだ", marker)
		}
	}
	if p.HasImage() {
		t.Error("テキストバリアントに画像が添付されているのだ")
	}
}

func TestCompose_TopicIsNotEscaped(t *testing.T) {
	c, reg := newTestComposer(t)
	v, _ := reg.Lookup(domain.MultiChannelContent)

	topic := `<b>"오메가3" & 비타민D</b>`
	p := c.Compose(v, domain.TopicInput(topic))
	if !strings.Contains(p.Text, topic) {
		t.Errorf("トピックがエスケープされているのだ: %s", p.Text)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	c, reg := newTestComposer(t)
	for _, v := range reg.All() {
		t.Run(string(v.ID), func(t *testing.T) {
			in := domain.UserInput{Topic: "같은 주제", Image: domain.NewImage([]byte("\xff\xd8\xff\xe0jpeg"))}
			first := c.Compose(v, in)
			second := c.Compose(v, in)
			if first.Text != second.Text {
				t.Error("同じ入力なのにプロンプトが変わったのだ")
			}
		})
	}
}

func TestCompose_ImageVariantAttachesImage(t *testing.T) {
	c, reg := newTestComposer(t)
	v, _ := reg.Lookup(domain.MagazineReportColorDiagnosis)

	imgA := domain.NewImage([]byte("\xff\xd8\xff\xe0first"))
	imgB := domain.NewImage([]byte("\x89PNG\r\n\x1a\nsecond"))

	pa := c.Compose(v, domain.ImageInput(imgA))
	pb := c.Compose(v, domain.ImageInput(imgB))

	if pa.Image != imgA || pb.Image != imgB {
		t.Error("画像がプロンプトに添付されていないのだ")
	}
	if pa.Text != pb.Text {
		t.Error("画像の内容によって指示文が変わってはいけないのだ")
	}
	if !strings.Contains(pa.Text, `<div class="magazine-report color-diagnosis">`) {
		t.Error("ラッパー要素の指示が含まれていないのだ")
	}
}

func TestCompose_UnknownVariantPanics(t *testing.T) {
	c, _ := newTestComposer(t)
	defer func() {
		if recover() == nil {
			t.Error("未登録バリアントで panic しなかったのだ")
		}
	}()
	c.Compose(domain.Variant{ID: "ghost"}, domain.TopicInput("x"))
}

func TestNewComposer_RejectsBrokenTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
	}{
		{"空テンプレート", ""},
		{"構文エラー", "주제: {{.Topic"},
		{"未知のフィールド", "{{.Image}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComposer([]domain.Variant{{ID: "x", PromptTemplate: tt.tmpl}})
			if err == nil {
				t.Error("エラーになるはずなのだ")
			}
		})
	}
}
