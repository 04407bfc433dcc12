package registry

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/shouni/go-content-kit/pkg/domain"

	"gopkg.in/yaml.v3"
)

var (
	//go:embed variants.yaml
	variantsYAML []byte
	//go:embed templates/*.md
	templateFS embed.FS
)

// Models は、バリアント定義でモデルが省略された場合に使うデフォルトのモデル識別子です。
// テキスト専用の高速モデルと、画像解析用のマルチモーダルモデルの2種類を持ちます。
type Models struct {
	Text   string
	Vision string
}

type registryFile struct {
	Defaults struct {
		MimeType   string `yaml:"mime_type"`
		FontFamily string `yaml:"font_family"`
		FontURL    string `yaml:"font_url"`
	} `yaml:"defaults"`
	Variants []variantEntry `yaml:"variants"`
}

type variantEntry struct {
	ID          string       `yaml:"id"`
	Label       string       `yaml:"label"`
	Description string       `yaml:"description"`
	Input       string       `yaml:"input"`
	Output      string       `yaml:"output"`
	Model       string       `yaml:"model"`
	Prompt      string       `yaml:"prompt"`
	Filename    string       `yaml:"filename"`
	MimeType    string       `yaml:"mime_type"`
	BOM         bool         `yaml:"bom"`
	Theme       domain.Theme `yaml:"theme"`
}

// Registry はバリアントIDをキーにした単一のルックアップテーブルなのだ。
// ロード後は読み取り専用なので、複数の goroutine から安全に参照できます。
type Registry struct {
	order    []domain.VariantID
	variants map[domain.VariantID]domain.Variant
}

// Load は埋め込みの variants.yaml とプロンプトテンプレートからレジストリを構築します。
func Load(models Models) (*Registry, error) {
	return Parse(variantsYAML, templateFS, models)
}

// Parse は YAML 定義とテンプレートファイル群からレジストリを構築するのだ。
// テンプレートは templates/ 配下から読み込みます。
func Parse(data []byte, templates fs.FS, models Models) (*Registry, error) {
	var file registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("バリアント定義のデコードに失敗しました: %w", err)
	}
	if len(file.Variants) == 0 {
		return nil, fmt.Errorf("バリアントが1つも定義されていません")
	}

	r := &Registry{variants: make(map[domain.VariantID]domain.Variant, len(file.Variants))}
	for _, e := range file.Variants {
		id := domain.VariantID(strings.TrimSpace(e.ID))
		if _, dup := r.variants[id]; dup {
			return nil, fmt.Errorf("バリアント '%s' が重複しています", id)
		}

		tmpl, err := fs.ReadFile(templates, path.Join("templates", e.Prompt))
		if err != nil {
			return nil, fmt.Errorf("バリアント '%s' のプロンプト '%s' の読み込みに失敗しました: %w", id, e.Prompt, err)
		}

		v := domain.Variant{
			ID:             id,
			Label:          e.Label,
			Description:    e.Description,
			Input:          domain.InputKind(e.Input),
			Output:         domain.OutputFormat(e.Output),
			Model:          e.Model,
			PromptTemplate: string(tmpl),
			Theme:          e.Theme,
			Filename:       e.Filename,
			MimeType:       firstNonEmpty(e.MimeType, file.Defaults.MimeType, domain.DefaultMimeType),
			BOM:            e.BOM,
		}
		v.Theme.FontFamily = firstNonEmpty(v.Theme.FontFamily, file.Defaults.FontFamily)
		v.Theme.FontURL = firstNonEmpty(v.Theme.FontURL, file.Defaults.FontURL)
		if v.Model == "" {
			if v.NeedsImage() {
				v.Model = models.Vision
			} else {
				v.Model = models.Text
			}
		}

		if err := v.Validate(); err != nil {
			return nil, err
		}
		r.order = append(r.order, id)
		r.variants[id] = v
	}
	return r, nil
}

// Lookup はIDに対応するバリアントを返します。
func (r *Registry) Lookup(id domain.VariantID) (domain.Variant, bool) {
	v, ok := r.variants[id]
	return v, ok
}

// Get は Lookup のエラー版なのだ。未登録なら domain.ErrUnknownVariant を返します。
func (r *Registry) Get(id domain.VariantID) (domain.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		supported := make([]string, 0, len(r.order))
		for _, known := range r.order {
			supported = append(supported, string(known))
		}
		slices.Sort(supported)
		return domain.Variant{}, fmt.Errorf("%w: '%s'。サポートされているバリアントは [%s] です",
			domain.ErrUnknownVariant, id, strings.Join(supported, ", "))
	}
	return v, nil
}

// All は定義順にすべてのバリアントを返します。
func (r *Registry) All() []domain.Variant {
	out := make([]domain.Variant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.variants[id])
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
