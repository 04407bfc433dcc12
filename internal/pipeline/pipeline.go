package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shouni/go-content-kit/internal/builder"
	"github.com/shouni/go-content-kit/internal/config"
	"github.com/shouni/go-content-kit/pkg/domain"
	"github.com/shouni/go-content-kit/pkg/server"

	"golang.org/x/sync/errgroup"
)

// shutdownTimeout はシグナル受信後に処理中のリクエストを待つ時間なのだ。
const shutdownTimeout = 10 * time.Second

// ExecuteGenerate は、指定されたバリアントを1回だけ実行し、
// ダウンロード用の成果物を出力ディレクトリに保存するのだ。
// 外部呼び出しが失敗した場合もエラー表示入りの文書を保存したうえでエラーを返します。
func ExecuteGenerate(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	v, err := appCtx.Registry.Get(domain.VariantID(cfg.Options.Variant))
	if err != nil {
		return err
	}

	in, err := readInput(v, cfg.Options)
	if err != nil {
		return err
	}
	if err := v.CheckInput(in); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	slog.Info("レポート生成を開始するのだ...", "variant", v.ID, "model", v.Model)
	res := appCtx.Runner.Run(runCtx, v, in)

	out, err := appCtx.Publisher.Publish(ctx, res.Report)
	if err != nil {
		return fmt.Errorf("成果物の保存に失敗したのだ: %w", err)
	}
	if res.Failed() {
		return fmt.Errorf("レポート生成に失敗したのだ（エラー表示を %s に保存しました）: %w", out.HTMLPath, res.Err)
	}

	slog.Info("レポートが完成したのだ！", "path", out.HTMLPath, "size", out.Size, "elapsed", res.Elapsed)
	return nil
}

// ExecuteServe は Web サーバーを起動し、SIGINT/SIGTERM を受けたらグレースフルに停止するのだ。
func ExecuteServe(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(appCtx.Registry, appCtx.Runner, appCtx.Store, server.Options{
		RequestTimeout: cfg.RequestTimeout,
		DefaultTopic:   config.DefaultTopic,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// serve は ctx がキャンセルされるまで httpServer を動かし続けます。
func serve(ctx context.Context, httpServer *http.Server) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		slog.Info("Webサーバーを起動するのだ", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバーの起動に失敗したのだ: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("サーバーを停止するのだ...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// readInput はオプションからバリアントに応じた入力を組み立てるのだ。
func readInput(v domain.Variant, opts config.GenerateOptions) (domain.UserInput, error) {
	if !v.NeedsImage() {
		return domain.TopicInput(opts.Topic), nil
	}

	if opts.ImageFile == "" {
		return domain.UserInput{}, fmt.Errorf("%w: バリアント '%s' には --image が必要なのだ", domain.ErrMissingInput, v.ID)
	}
	data, err := os.ReadFile(opts.ImageFile)
	if err != nil {
		return domain.UserInput{}, fmt.Errorf("画像ファイル '%s' の読み込みに失敗しました: %w", opts.ImageFile, err)
	}
	if len(data) > server.MaxUploadBytes {
		return domain.UserInput{}, fmt.Errorf("画像ファイル '%s' が大きすぎます（上限 %d バイト）", opts.ImageFile, server.MaxUploadBytes)
	}
	declared := mime.TypeByExtension(filepath.Ext(opts.ImageFile))
	return domain.ImageInput(domain.NewImageWithType(data, declared)), nil
}
