package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-content-kit/internal/config"
	"github.com/shouni/go-content-kit/internal/pipeline"
	"github.com/shouni/go-content-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// generateCmd は、1つのバリアントを実行して成果物を保存するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "バリアントを1回実行して HTML を保存しますなのだ。",
	Long: `テキストバリアントは --topic、画像バリアントは --image を入力にするのだ。
結果はダウンロード用と同じ形式で --output-dir に保存されるのだよ。`,
	PreRunE: preRunAppE,
	RunE:    generateCommand,
}

func init() {
	generateCmd.Flags().StringVar(&opts.Variant, "variant", string(domain.MultiChannelContent), "実行するバリアントIDなのだ（一覧は variants コマンド）。")
	generateCmd.Flags().StringVarP(&opts.Topic, "topic", "t", config.DefaultTopic, "テキストバリアントの主題なのだ。")
	generateCmd.Flags().StringVarP(&opts.ImageFile, "image", "i", "", "画像バリアントに渡す写真のパスなのだ。")
	generateCmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "成果物を保存するディレクトリなのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	slog.Info("レポート生成パイプラインを起動するのだ！",
		"variant", cfg.Options.Variant,
		"provider", cfg.Provider,
		"text_model", cfg.TextModel,
		"vision_model", cfg.VisionModel,
		"output", cfg.Options.OutputDir)

	if err := pipeline.ExecuteGenerate(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
