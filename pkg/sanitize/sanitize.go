package sanitize

import "strings"

const (
	// OpenFence は HTML コードブロックの開始トークンなのだ。
	OpenFence = "```html"
	// CloseFence はコードブロックの終了トークンです。
	CloseFence = "```"
)

// Fragment は、モデルの生の返答から Markdown のコードフェンスを取り除き、前後の空白を削ります。
// HTML としての妥当性は確認せず、散文が返ってきた場合もそのまま通すのだ。
//
// "```" をすべて除去した後には連続するバッククォートが高々2つしか残らないため、
// 1回の適用でどちらのトークンも残らず、2回目の適用は何も変えません。
func Fragment(raw string) string {
	s := strings.ReplaceAll(raw, OpenFence, "")
	s = strings.ReplaceAll(s, CloseFence, "")
	return strings.TrimSpace(s)
}
