package domain

import "errors"

var (
	// ErrMissingCredential は API クレデンシャルが設定されていないことを示します。
	// 起動時に検出され、ユーザー操作を受け付ける前にアプリケーションを停止させます。
	ErrMissingCredential = errors.New("APIクレデンシャルが設定されていません")

	// ErrUnknownVariant は登録されていないバリアントIDが指定されたことを示すのだ。
	ErrUnknownVariant = errors.New("未登録のバリアントです")

	// ErrMissingInput はバリアントが要求する入力（トピックまたは画像）が無いことを示します。
	ErrMissingInput = errors.New("必要な入力がありません")

	// ErrEmptyResponse はモデルが空の返答を返したことを示すのだ。
	ErrEmptyResponse = errors.New("モデルの返答が空です")
)
