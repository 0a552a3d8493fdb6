package config_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/config"
	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/render/template/gotemplate"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

const extensionsDoc = `{
  "version": "0.3.1",
  "atoms": [["mention", "bob", {"id": "u7"}]],
  "cards": [["hr", {}]],
  "markups": [["b"], ["a", ["href", "/x"]]],
  "sections": [
    [1, "p", [[0, [0], 1, "bold "], [0, [1], 1, "link"], [1, [], 0, 0]]],
    [1, "aside", [[0, [], 0, "note"]]],
    [10, 0]
  ]
}`

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func el(tag, key string, props map[string]any, children ...*tree.Node) *tree.Node {
	node := tree.Element(tag, key, props)
	node.Append(children...)
	return node
}

func raw(markup, key string) *tree.Node {
	node := tree.Raw(markup)
	node.Key = key
	return node
}

func TestRegistry_DeclarativeExtensions(t *testing.T) {
	cfg := config.Default()
	cfg.Extensions = config.ExtensionsConfig{
		Markups: []config.ElementExtension{
			{Name: "b", Tag: "strong"},
			{Name: "a", Tag: "a", Attrs: map[string]string{"rel": "nofollow", "href": "#"}},
		},
		Sections: []config.ElementExtension{{Name: "aside", Tag: "div", Attrs: map[string]string{"class": "note"}}},
		Atoms:    []config.TemplateExtension{{Name: "mention", Template: `<span data-id="{{ payload.id }}">@{{ text }}</span>`}},
		Cards:    []config.TemplateExtension{{Name: "hr", Template: `<hr data-key="{{ key }}">`}},
	}

	registry, err := cfg.Registry(newEngine(t), nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	doc, err := model.Decode([]byte(extensionsDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	result, err := builder.New(registry).Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []*tree.Node{
		el("p", "0", nil,
			el("strong", "0-0-0", nil, tree.Text("bold ")),
			el("a", "0-1-0", map[string]any{"rel": "nofollow", "href": "/x"}, tree.Text("link")),
			raw(`<span data-id="u7">@bob</span>`, "mention-3"),
		),
		el("div", "1", map[string]any{"class": "note"}, tree.Text("note")),
		raw(`<hr data-key="2">`, "2"),
	}
	if diff := cmp.Diff(want, result.Sections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_TemplateErrorsSurfaceEarly(t *testing.T) {
	cfg := config.Default()
	cfg.Extensions.Atoms = []config.TemplateExtension{{Name: "broken", Template: "{% if %}"}}

	_, err := cfg.Registry(newEngine(t), nil)
	if err == nil || !strings.Contains(err.Error(), `atom "broken" template`) {
		t.Fatalf("expected template error, got %v", err)
	}
}

func TestRegistry_TemplatesNeedEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Extensions.Cards = []config.TemplateExtension{{Name: "hr", Template: "<hr>"}}

	if _, err := cfg.Registry(nil, nil); err == nil {
		t.Fatal("expected missing engine error")
	}
}

// flakyEngine accepts the validation render and fails every later one.
type flakyEngine struct {
	calls int
}

func (e *flakyEngine) Render(string, any, ...io.Writer) (string, error) { return "", nil }

func (e *flakyEngine) RenderTemplate(string, any, ...io.Writer) (string, error) { return "", nil }

func (e *flakyEngine) RenderString(string, any, ...io.Writer) (string, error) {
	e.calls++
	if e.calls > 1 {
		return "", errors.New("boom")
	}
	return "ok", nil
}

func (e *flakyEngine) RegisterFilter(string, func(any, any) (any, error)) error { return nil }

func (e *flakyEngine) GlobalContext(any) error { return nil }

func TestRegistry_FailingTemplateLogsAndRendersNothing(t *testing.T) {
	var logs bytes.Buffer
	logger, err := config.LoggingConfig{Level: config.LevelNormal}.PrepareWriter(&logs)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	cfg := config.Default()
	cfg.Extensions.Atoms = []config.TemplateExtension{{Name: "mention", Template: "{{ text }}"}}
	registry, err := cfg.Registry(&flakyEngine{}, logger)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	doc, err := model.Decode([]byte(`{"version":"0.3.1","atoms":[["mention","x",{}]],"cards":[],"markups":[],"sections":[[1,"p",[[1,[],0,0]]]]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	result, err := builder.New(registry).Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff([]*tree.Node{el("p", "0", nil)}, result.Sections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "Extension template failed") {
		t.Fatalf("expected warning, got %q", logs.String())
	}
}
