package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-mobiledoc/pkg/render/template/gotemplate"
	"github.com/goliatone/go-mobiledoc/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func init() {
	engine, err := gotemplate.New()
	if err != nil {
		panic(err)
	}
	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}); err != nil {
		panic(err)
	}
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello Ada!" || written != result {
		t.Fatalf("render mismatch: result %q written %q", result, written)
	}
}

func TestGoTemplateEngine_GlobalsAndFilters(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"site": "blog"}))

	result, err := engine.Render("use-global", map[string]any{"title": "news"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "blog: NEWS!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type payload struct {
		Src string `json:"src"`
	}
	for i := 0; i < 2; i++ {
		out, err := engine.Render(`<img src="{{ payload.src }}">`, map[string]any{"payload": payload{Src: "a.png"}})
		if err != nil {
			t.Fatalf("render string: %v", err)
		}
		if out != `<img src="a.png">` {
			t.Fatalf("unexpected output %q", out)
		}
	}

	escaped, err := engine.RenderString("{{ text }}", map[string]any{"text": "<b>"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if escaped != "&lt;b&gt;" {
		t.Fatalf("expected autoescaped output, got %q", escaped)
	}
}

func TestGoTemplateEngine_Errors(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for file template without a source")
	}
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected parse error")
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
}

func TestGoTemplateEngine_BaseDir(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithBaseDir(filepath.Join("testdata", "templates")))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Grace!" {
		t.Fatalf("unexpected result %q", result)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}
