package server

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-content-kit/pkg/domain"
	"github.com/shouni/go-content-kit/pkg/registry"
	"github.com/shouni/go-content-kit/pkg/runner"
	"github.com/shouni/go-content-kit/pkg/store"
)

// MaxUploadBytes はアップロード画像の上限サイズです。
const MaxUploadBytes = 20 << 20

// DefaultRequestTimeout は1リクエストあたりのモデル呼び出しの上限時間なのだ。
const DefaultRequestTimeout = 120 * time.Second

//go:embed web/pages.html
var pagesFS embed.FS

// Options はサーバーの挙動を調整するパラメータです。
type Options struct {
	RequestTimeout time.Duration
	DefaultTopic   string
}

// Server はバリアントごとの入力フォームと、生成済みレポートの表示・ダウンロードを提供します。
type Server struct {
	registry *registry.Registry
	runner   *runner.ReportRunner
	store    *store.ReportStore
	pages    *template.Template
	opts     Options
}

// New は Server を初期化するのだ。
func New(reg *registry.Registry, rr *runner.ReportRunner, st *store.ReportStore, opts Options) (*Server, error) {
	if reg == nil || rr == nil || st == nil {
		return nil, errors.New("registry, runner and store are required")
	}
	pages, err := template.ParseFS(pagesFS, "web/pages.html")
	if err != nil {
		return nil, fmt.Errorf("画面テンプレートの解析に失敗しました: %w", err)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Server{
		registry: reg,
		runner:   rr,
		store:    st,
		pages:    pages,
		opts:     opts,
	}, nil
}

// Routes はルーティングを登録したハンドラーを返します。
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /variants/{id}", s.handleForm)
	mux.HandleFunc("POST /variants/{id}", s.handleSubmit)
	mux.HandleFunc("GET /reports/{id}", s.handleReport)
	mux.HandleFunc("GET /reports/{id}/download", s.handleDownload)
	mux.HandleFunc("GET /api/variants", s.handleAPIVariants)
	mux.HandleFunc("POST /api/reports", s.handleAPIReports)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return logMiddleware(mux)
}

// --- Pages ---

type formPage struct {
	Variant domain.Variant
	Topic   string
	Notice  string
}

type resultPage struct {
	Variant  domain.Variant
	ID       string
	Filename string
	Failed   bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", struct{ Variants []domain.Variant }{s.registry.All()})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "form", formPage{Variant: v, Topic: s.opts.DefaultTopic})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	in, err := readFormInput(r, v)
	if err != nil {
		status := http.StatusBadRequest
		if isTooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		s.render(w, status, "form", formPage{Variant: v, Topic: s.opts.DefaultTopic, Notice: "입력을 읽지 못했습니다: " + err.Error()})
		return
	}
	if err := v.CheckInput(in); err != nil {
		s.render(w, http.StatusBadRequest, "form", formPage{Variant: v, Notice: "사진을 선택해 주세요."})
		return
	}

	entry := s.run(r.Context(), v, in)
	s.render(w, http.StatusOK, "result", resultPage{
		Variant:  v,
		ID:       entry.ID,
		Filename: entry.Report.Filename,
		Failed:   entry.Failed,
	})
}

// reportCSP はモデル出力を表示するレスポンスに付けるポリシーです。
// 直接開いた場合も iframe と同じくスクリプトを動かさないのだ。
const reportCSP = "sandbox allow-popups"

// handleReport は組み立て済みの文書をそのまま表示用に返します。
// 結果ページからは iframe で読み込むのだ。
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", entry.Report.ContentType())
	w.Header().Set("Content-Security-Policy", reportCSP)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, entry.Report.HTML)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	body := entry.Report.Bytes()
	w.Header().Set("Content-Type", entry.Report.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": entry.Report.Filename}))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	_, _ = w.Write(body)
}

// --- JSON API ---

type variantResp struct {
	ID          domain.VariantID    `json:"id"`
	Label       string              `json:"label"`
	Description string              `json:"description"`
	Input       domain.InputKind    `json:"input"`
	Output      domain.OutputFormat `json:"output"`
	Model       string              `json:"model"`
	Filename    string              `json:"filename"`
}

type reportReq struct {
	Variant     string `json:"variant"`
	Topic       string `json:"topic"`
	ImageBase64 string `json:"image_base64"`
}

type reportResp struct {
	ID       string `json:"id"`
	Failed   bool   `json:"failed"`
	Error    string `json:"error,omitempty"`
	Filename string `json:"filename"`
	HTML     string `json:"html"`
}

func (s *Server) handleAPIVariants(w http.ResponseWriter, r *http.Request) {
	variants := s.registry.All()
	resp := make([]variantResp, 0, len(variants))
	for _, v := range variants {
		resp = append(resp, variantResp{
			ID:          v.ID,
			Label:       v.Label,
			Description: v.Description,
			Input:       v.Input,
			Output:      v.Output,
			Model:       v.Model,
			Filename:    v.Filename,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIReports(w http.ResponseWriter, r *http.Request) {
	// base64 で膨らむ分を見込んで上限を決めるのだ
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes/3*4+(1<<20))

	var req reportReq
	if err := decodeJSON(r.Body, &req); err != nil {
		status := http.StatusBadRequest
		if isTooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSONError(w, status, err)
		return
	}

	v, err := s.registry.Get(domain.VariantID(req.Variant))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}

	in := domain.TopicInput(req.Topic)
	if v.NeedsImage() {
		data, declared, err := decodeImage(req.ImageBase64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}
		if len(data) > MaxUploadBytes {
			writeJSONError(w, http.StatusRequestEntityTooLarge, errors.New("image too large"))
			return
		}
		in = domain.ImageInput(domain.NewImageWithType(data, declared))
	}
	if err := v.CheckInput(in); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	entry := s.run(r.Context(), v, in)
	resp := reportResp{
		ID:       entry.ID,
		Failed:   entry.Failed,
		Filename: entry.Report.Filename,
		HTML:     entry.Report.HTML,
	}
	if entry.Failed {
		resp.Error = entry.err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

type runEntry struct {
	store.Entry
	err error
}

// run はレポートを生成してストアに預け、表示用のIDを返すのだ。
func (s *Server) run(ctx context.Context, v domain.Variant, in domain.UserInput) runEntry {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	res := s.runner.Run(ctx, v, in)
	return runEntry{Entry: s.store.Put(res.Report, res.Failed()), err: res.Err}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (domain.Variant, bool) {
	v, ok := s.registry.Lookup(domain.VariantID(r.PathValue("id")))
	if !ok {
		http.Error(w, "variant not found", http.StatusNotFound)
		return domain.Variant{}, false
	}
	return v, true
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var sb strings.Builder
	if err := s.pages.ExecuteTemplate(&sb, name, data); err != nil {
		slog.Error("Failed to render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, sb.String())
}

// readFormInput はフォームからバリアントに応じた入力を取り出します。
// 未入力は空の UserInput として返し、判定は CheckInput に任せるのだ。
func readFormInput(r *http.Request, v domain.Variant) (domain.UserInput, error) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return domain.UserInput{}, err
	}
	if !v.NeedsImage() {
		return domain.TopicInput(r.FormValue("topic")), nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return domain.ImageInput(nil), nil
	}
	if err != nil {
		return domain.UserInput{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.UserInput{}, err
	}
	if len(data) == 0 {
		return domain.ImageInput(nil), nil
	}
	return domain.ImageInput(domain.NewImageWithType(data, header.Header.Get("Content-Type"))), nil
}

// decodeImage は base64 文字列をデコードします。data URL 形式も受け付け、
// その場合は宣言された MIME タイプも返すのだ。
func decodeImage(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", nil
	}
	var declared string
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		if meta, payload, found := strings.Cut(rest, ","); found {
			declared, _, _ = strings.Cut(meta, ";")
			s = payload
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("image_base64 のデコードに失敗しました: %w", err)
	}
	return data, declared, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
