package domain

import (
	"mime"
	"net/http"
	"strings"
)

// Image は顧客がアップロードした画像のペイロードです。
// 解像度やアスペクト比はそのまま、デコードせずにモデルへ渡します。
type Image struct {
	Data     []byte
	MimeType string
}

// NewImage はバイト列から Image を生成し、MIME タイプを内容から判定するのだ。
func NewImage(data []byte) *Image {
	return &Image{
		Data:     data,
		MimeType: http.DetectContentType(data),
	}
}

// NewImageWithType は内容から MIME タイプを判定し、画像と判定できなかった場合は
// アップロード時に宣言された image/* の型を使うのだ。HEIC などは内容から判定できません。
func NewImageWithType(data []byte, declared string) *Image {
	img := NewImage(data)
	if strings.HasPrefix(img.MimeType, "image/") {
		return img
	}
	if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "image/") {
		img.MimeType = mt
	}
	return img
}

// UserInput は1リクエスト分のユーザー入力です。Topic か Image のどちらか一方を使います。
type UserInput struct {
	Topic string
	Image *Image
}

// TopicInput はテキストバリアント用の入力を作るのだ。
func TopicInput(topic string) UserInput {
	return UserInput{Topic: topic}
}

// ImageInput は画像バリアント用の入力を作るのだ。
func ImageInput(img *Image) UserInput {
	return UserInput{Image: img}
}

// Prompt はモデルに送る指示文と、画像バリアントの場合は添付画像です。
// 構築後は変更しません。
type Prompt struct {
	Text  string
	Image *Image
}

// HasImage は画像が添付されているかを返します。
func (p Prompt) HasImage() bool {
	return p.Image != nil && len(p.Image.Data) > 0
}
