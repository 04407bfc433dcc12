package cmd

import (
	"fmt"

	"github.com/shouni/go-content-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// serveCmd は、バリアントごとの入力フォームを提供する Web サーバーを起動するのだ。
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Web UI と JSON API を起動しますなのだ。",
	PreRunE: preRunAppE,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pipeline.ExecuteServe(cmd.Context(), loadConfig(cmd)); err != nil {
			return fmt.Errorf("サーバー実行中にエラーが発生したのだ: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "待ち受けアドレスなのだ。SERVER_ADDR より優先します。")
}
