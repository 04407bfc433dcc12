package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-content-kit/pkg/domain"
)

// PublishResult はパブリッシュ処理で書き出されたファイルの情報を保持します。
type PublishResult struct {
	HTMLPath string
	Size     int
}

// FilePublisher はダウンロード成果物をローカルディレクトリへ保存するのだ。
type FilePublisher struct {
	outputDir string
}

// NewFilePublisher は保存先ディレクトリを指定して FilePublisher を生成します。
func NewFilePublisher(outputDir string) *FilePublisher {
	return &FilePublisher{outputDir: outputDir}
}

// Publish はレポートのダウンロード用バイト列を、バリアント固定のファイル名で書き出します。
func (p *FilePublisher) Publish(ctx context.Context, doc domain.ReportDocument) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}

	outputPath, err := ResolveOutputPath(p.outputDir, doc.Filename)
	if err != nil {
		return PublishResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return PublishResult{}, fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	data := doc.Bytes()
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return PublishResult{}, fmt.Errorf("HTMLファイルの書き込みに失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Report published",
		slog.String("variant", string(doc.Variant)),
		slog.String("path", outputPath),
		slog.Int("bytes", len(data)),
	)
	return PublishResult{HTMLPath: outputPath, Size: len(data)}, nil
}
