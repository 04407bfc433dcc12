package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/shouni/go-content-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts は generate コマンドの実行時パラメータなのだ。
var opts = config.GenerateOptions{OutputDir: config.DefaultOutputDir}

// 環境変数を上書きするためのフラグ値です。
var (
	providerFlag    string
	modelFlag       string
	visionModelFlag string
	addrFlag        string
)

var rootCmd = &cobra.Command{
	Use:   "content-kit",
	Short: "主題や写真から、ブログ・台本・診断レポートを生成するのだ。",
	Long: `バリアントごとに決まったプロンプトとモデルで、1回だけ生成を行うのだ。
結果はテーマ付きの HTML 文書として保存・表示できるのだよ。`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, serveCmd, variantsCmd)
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "使用するプロバイダー（gemini, openai, mock）なのだ。AI_PROVIDER より優先します。")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "テキストバリアントで使うモデル名なのだ。GEMINI_MODEL より優先します。")
	rootCmd.PersistentFlags().StringVar(&visionModelFlag, "vision-model", "", "画像バリアントで使うモデル名なのだ。GEMINI_VISION_MODEL より優先します。")

	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// setupLogger は --verbose に応じてログレベルを切り替えるのだ。
func setupLogger(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数から設定を読み込み、指定されたフラグで上書きするのだ。
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = providerFlag
	}
	if flags.Changed("model") {
		cfg.TextModel = modelFlag
	}
	if flags.Changed("vision-model") {
		cfg.VisionModel = visionModelFlag
	}
	if flags.Changed("addr") {
		cfg.ServerAddr = addrFlag
	}
	cfg.Options = opts
	return cfg
}

// preRunAppE は、コマンド実行前にクレデンシャルなどの必須チェックを行うのだ。
// 不足していればここで処理を止めます。
func preRunAppE(cmd *cobra.Command, args []string) error {
	return loadConfig(cmd).Validate()
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
