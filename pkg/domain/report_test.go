package domain

import (
	"bytes"
	"errors"
	"testing"
)

func TestReportDocument_Bytes(t *testing.T) {
	t.Run("BOM有効なら先頭にEFBBBFが付くのだ", func(t *testing.T) {
		doc := ReportDocument{HTML: "<p>안녕</p>", BOM: true}
		got := doc.Bytes()
		if !bytes.HasPrefix(got, []byte{0xEF, 0xBB, 0xBF}) {
			t.Fatalf("BOMが付いていないのだ: %x", got[:3])
		}
		if string(TrimBOM(got)) != doc.HTML {
			t.Errorf("BOM除去後の内容が一致しないのだ: %q", TrimBOM(got))
		}
	})

	t.Run("BOM無効ならHTMLそのままなのだ", func(t *testing.T) {
		doc := ReportDocument{HTML: "<p>hi</p>"}
		if string(doc.Bytes()) != "<p>hi</p>" {
			t.Errorf("想定外のバイト列なのだ: %q", doc.Bytes())
		}
	})
}

func TestReportDocument_ContentType(t *testing.T) {
	if got := (ReportDocument{}).ContentType(); got != "text/html; charset=utf-8" {
		t.Errorf("デフォルトのContent-Typeが違うのだ: %s", got)
	}
}

func TestTrimBOM_ShortInput(t *testing.T) {
	if got := TrimBOM([]byte{0xEF}); len(got) != 1 {
		t.Errorf("短い入力は変更しないはずなのだ: %x", got)
	}
}

func TestVariant_Validate(t *testing.T) {
	valid := Variant{
		ID:             CompactDiagnosis,
		Input:          InputImage,
		Output:         OutputHTML,
		Model:          "gemini-2.5-pro",
		PromptTemplate: "x",
		Filename:       "compact.html",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("有効な定義でエラーになったのだ: %v", err)
	}
	if !valid.NeedsImage() {
		t.Error("画像バリアントなのにNeedsImageがfalseなのだ")
	}

	broken := valid
	broken.Output = "pdf"
	if err := broken.Validate(); err == nil {
		t.Error("不正な出力形式を検出できていないのだ")
	}

	noModel := valid
	noModel.Model = ""
	if err := noModel.Validate(); err == nil {
		t.Error("モデル未設定を検出できていないのだ")
	}
}

func TestNewImage_DetectsMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	img := NewImage(png)
	if img.MimeType != "image/png" {
		t.Errorf("PNGとして判定されていないのだ: %s", img.MimeType)
	}
	if !(Prompt{Image: img}).HasImage() {
		t.Error("HasImageがfalseなのだ")
	}
}

func TestNewImageWithType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	heic := []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00mif1heic")

	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
	}{
		{"判定できればそれを使う", png, "image/jpeg", "image/png"},
		{"判定できなければ宣言された型", heic, "image/heic", "image/heic"},
		{"パラメータ付きの宣言", heic, "image/heif; q=1", "image/heif"},
		{"画像以外の宣言は使わない", heic, "application/pdf", "application/octet-stream"},
		{"宣言なし", heic, "", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewImageWithType(tt.data, tt.declared).MimeType; got != tt.want {
				t.Errorf("MimeType = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVariant_CheckInput(t *testing.T) {
	text := Variant{ID: MultiChannelContent, Input: InputTopic}
	img := Variant{ID: CompactDiagnosis, Input: InputImage}

	tests := []struct {
		name    string
		v       Variant
		in      UserInput
		wantErr bool
	}{
		{"トピックあり", text, TopicInput("커피"), false},
		{"トピックが空白のみでも通す", text, TopicInput("   "), false},
		{"トピックが空でも通す", text, TopicInput(""), false},
		{"画像あり", img, ImageInput(NewImage([]byte("data"))), false},
		{"画像なし", img, TopicInput("커피"), true},
		{"空の画像", img, ImageInput(&Image{}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.CheckInput(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMissingInput) {
				t.Errorf("ErrMissingInput でラップされていないのだ: %v", err)
			}
		})
	}
}
