package domain

// utf8BOM はダウンロードファイルで非ラテン文字が化けないように先頭へ付ける印なのだ。
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReportDocument はシェルにフラグメントを埋め込んだ最終成果物です。
// 画面表示用の HTML と、ダウンロード用のバイト列の2つの表現を持ちます。
type ReportDocument struct {
	Variant  VariantID
	HTML     string
	Filename string
	MimeType string
	BOM      bool
}

// Bytes はダウンロード用の UTF-8 バイト列を返します。BOM が有効なら先頭に付与します。
func (d ReportDocument) Bytes() []byte {
	if !d.BOM {
		return []byte(d.HTML)
	}
	out := make([]byte, 0, len(utf8BOM)+len(d.HTML))
	out = append(out, utf8BOM...)
	return append(out, d.HTML...)
}

// ContentType は HTTP レスポンス用の Content-Type を返すのだ。
func (d ReportDocument) ContentType() string {
	mime := d.MimeType
	if mime == "" {
		mime = DefaultMimeType
	}
	return mime + "; charset=utf-8"
}

// TrimBOM は先頭の UTF-8 BOM を取り除いたバイト列を返します。
func TrimBOM(b []byte) []byte {
	if len(b) >= len(utf8BOM) && b[0] == utf8BOM[0] && b[1] == utf8BOM[1] && b[2] == utf8BOM[2] {
		return b[len(utf8BOM):]
	}
	return b
}
