package builder

import (
	"github.com/shouni/go-content-kit/internal/config"

	"github.com/shouni/go-content-kit/pkg/ai"
	"github.com/shouni/go-content-kit/pkg/publisher"
	"github.com/shouni/go-content-kit/pkg/registry"
	"github.com/shouni/go-content-kit/pkg/runner"
	"github.com/shouni/go-content-kit/pkg/store"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各コマンドに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config    *config.Config           // Configは、環境変数とフラグから組み立てた設定です。
	Registry  *registry.Registry       // Registryは、バリアントIDをキーにした定義テーブルです。
	Runner    *runner.ReportRunner     // Runnerは、1リクエスト分のレポート生成を担います。
	Store     *store.ReportStore       // Storeは、表示リンクとダウンロードリンクの間でレポートを受け渡します。
	Publisher *publisher.FilePublisher // Publisherは、ダウンロード成果物をローカルに保存します。
	aiClient  ai.GenerativeModel       // aiClient は生成モデルとの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	reg *registry.Registry,
	aiClient ai.GenerativeModel,
	reportRunner *runner.ReportRunner,
	reportStore *store.ReportStore,
	pub *publisher.FilePublisher,
) AppContext {
	return AppContext{
		Config:    cfg,
		Registry:  reg,
		Runner:    reportRunner,
		Store:     reportStore,
		Publisher: pub,
		aiClient:  aiClient,
	}
}

// AIClient は共通の生成モデルクライアントを返します。
func (a *AppContext) AIClient() ai.GenerativeModel {
	return a.aiClient
}
