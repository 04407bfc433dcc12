package domain

import "fmt"

// VariantID はタスクバリアントを一意に識別するキーです。
type VariantID string

// 登録済みバリアントの ID なのだ。
const (
	MultiChannelContent          VariantID = "multi_channel_content"
	MagazineReportLong           VariantID = "magazine_report_long"
	MagazineReportShort          VariantID = "magazine_report_short"
	MagazineReportColorDiagnosis VariantID = "magazine_report_color_diagnosis"
	CompactDiagnosis             VariantID = "compact_diagnosis"
	KoreanOnlyMagazine           VariantID = "korean_only_magazine"
)

// InputKind はバリアントが受け付けるユーザー入力の種類です。
type InputKind string

const (
	InputTopic InputKind = "topic"
	InputImage InputKind = "image"
)

// OutputFormat はモデルに要求する返答の形式です。
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
)

// DefaultMimeType はダウンロード成果物の MIME タイプなのだ。
const DefaultMimeType = "text/html"

// Variant は、プロンプトテンプレート・モデル・HTMLシェルの固定の組み合わせです。
// 1リクエストにつき有効なバリアントは常に1つで、バリアント同士は合成されません。
type Variant struct {
	ID          VariantID
	Label       string
	Description string
	Input       InputKind
	Output      OutputFormat

	// Model は generate 呼び出しに渡すモデル識別子です。
	Model string
	// PromptTemplate は text/template 形式の指示文です。
	PromptTemplate string
	// Theme はシェルの見た目（ヘッダー・フッター・配色・フォント）です。
	Theme Theme

	Filename string
	MimeType string
	// BOM が true のとき、ダウンロードバイト列の先頭に UTF-8 BOM を付与します。
	BOM bool
}

// Theme はシェルに埋め込む静的な装飾情報です。
type Theme struct {
	Title      string `yaml:"title"`
	Subtitle   string `yaml:"subtitle"`
	Footer     string `yaml:"footer"`
	Accent     string `yaml:"accent"`
	Background string `yaml:"background"`
	Surface    string `yaml:"surface"`
	TextColor  string `yaml:"text_color"`
	FontFamily string `yaml:"font_family"`
	FontURL    string `yaml:"font_url"`
	MaxWidth   string `yaml:"max_width"`
}

// NeedsImage はバリアントが画像入力を要求するかどうかを返すのだ。
func (v Variant) NeedsImage() bool {
	return v.Input == InputImage
}

// CheckInput はバリアントが要求する入力が揃っているかを確認します。
// UI や CLI が Composer を呼ぶ前に使うためのもので、Composer 自身は確認しないのだ。
// 画像バリアントの画像がない場合だけを止めます。トピックは空でも入力どおりに渡します。
func (v Variant) CheckInput(in UserInput) error {
	if v.NeedsImage() && (in.Image == nil || len(in.Image.Data) == 0) {
		return fmt.Errorf("%w: バリアント '%s' には画像が必要です", ErrMissingInput, v.ID)
	}
	return nil
}

// Validate はバリアント定義として最低限必要な項目が揃っているか確認します。
func (v Variant) Validate() error {
	switch {
	case v.ID == "":
		return fmt.Errorf("バリアントIDが空です")
	case v.Model == "":
		return fmt.Errorf("バリアント '%s' のモデルが未設定です", v.ID)
	case v.PromptTemplate == "":
		return fmt.Errorf("バリアント '%s' のプロンプトテンプレートが空です", v.ID)
	case v.Filename == "":
		return fmt.Errorf("バリアント '%s' のファイル名が未設定です", v.ID)
	}
	switch v.Input {
	case InputTopic, InputImage:
	default:
		return fmt.Errorf("バリアント '%s' の入力種別 '%s' は不正です", v.ID, v.Input)
	}
	switch v.Output {
	case OutputMarkdown, OutputHTML:
	default:
		return fmt.Errorf("バリアント '%s' の出力形式 '%s' は不正です", v.ID, v.Output)
	}
	return nil
}
