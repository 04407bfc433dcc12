package pipeline

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-content-kit/internal/config"
	"github.com/shouni/go-content-kit/pkg/domain"
)

func mockConfig(t *testing.T, variant domain.VariantID) *config.Config {
	t.Helper()
	return &config.Config{
		Provider:       config.ProviderMock,
		TextModel:      config.DefaultTextModel,
		VisionModel:    config.DefaultVisionModel,
		RequestTimeout: 5 * time.Second,
		Options: config.GenerateOptions{
			Variant:   string(variant),
			OutputDir: t.TempDir(),
		},
	}
}

func TestExecuteGenerate(t *testing.T) {
	t.Run("テキストバリアントは主題を入れて保存される", func(t *testing.T) {
		cfg := mockConfig(t, domain.MultiChannelContent)
		cfg.Options.Topic = config.DefaultTopic
		if err := ExecuteGenerate(context.Background(), cfg); err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(filepath.Join(cfg.Options.OutputDir, "adam_multichannel_content.html"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(got), config.DefaultTopic) {
			t.Errorf("デフォルト主題が使われていないのだ")
		}
	})

	t.Run("空の主題でも生成する", func(t *testing.T) {
		cfg := mockConfig(t, domain.MultiChannelContent)
		if err := ExecuteGenerate(context.Background(), cfg); err != nil {
			t.Errorf("空の主題で止まってはいけないのだ: %v", err)
		}
	})

	t.Run("画像バリアントはファイルから読む", func(t *testing.T) {
		cfg := mockConfig(t, domain.CompactDiagnosis)
		img := filepath.Join(t.TempDir(), "photo.png")
		if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg.Options.ImageFile = img
		if err := ExecuteGenerate(context.Background(), cfg); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(filepath.Join(cfg.Options.OutputDir, "compact_diagnosis.html")); err != nil {
			t.Errorf("成果物が保存されていないのだ: %v", err)
		}
	})

	t.Run("画像なしはErrMissingInput", func(t *testing.T) {
		cfg := mockConfig(t, domain.MagazineReportLong)
		if err := ExecuteGenerate(context.Background(), cfg); !errors.Is(err, domain.ErrMissingInput) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("未知のバリアント", func(t *testing.T) {
		cfg := mockConfig(t, "nope")
		if err := ExecuteGenerate(context.Background(), cfg); !errors.Is(err, domain.ErrUnknownVariant) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, &http.Server{Addr: addr, Handler: http.NotFoundHandler()})
	}()

	// 起動を待ってから止めるのだ
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err := net.Dial("tcp", addr); err == nil {
			conn.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("停止時にエラーが返ったのだ: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("サーバーが停止しないのだ")
	}
}
