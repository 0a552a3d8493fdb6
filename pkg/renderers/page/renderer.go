// Package page renders a built document as a complete HTML page: the html
// renderer produces the body, which is then placed into a pongo2 layout.
// When RenderOptions.Theme is set the layout also receives the theme's CSS
// variables, stylesheet URL and rendered header and footer partials.
package page

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/render"
	rendertemplate "github.com/goliatone/go-mobiledoc/pkg/render/template"
	"github.com/goliatone/go-mobiledoc/pkg/render/template/gotemplate"
	htmlrenderer "github.com/goliatone/go-mobiledoc/pkg/renderers/html"
)

const (
	// Name is the registry name of the renderer.
	Name = "page"

	templateName = "templates/page.tpl"
	defaultLang  = "en"
	defaultTitle = "Untitled"
)

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	body             *htmlrenderer.Renderer
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a template renderer, bypassing the pongo2
// engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithBodyRenderer replaces the html renderer used for the page body.
func WithBodyRenderer(body *htmlrenderer.Renderer) Option {
	return func(cfg *config) {
		if body != nil {
			cfg.body = body
		}
	}
}

// Renderer wraps html output into a page layout.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	body      *htmlrenderer.Renderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("page renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	body := cfg.body
	if body == nil {
		body = htmlrenderer.New()
	}
	return &Renderer{templates: templates, body: body}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, result builder.Result, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("page renderer: template renderer is nil")
	}
	body, err := r.body.Render(ctx, result, options)
	if err != nil {
		return nil, fmt.Errorf("page renderer: render body: %w", err)
	}

	data := map[string]any{
		"lang":     valueOr(options.Lang, defaultLang),
		"title":    valueOr(options.Title, defaultTitle),
		"metadata": metadataList(options.Metadata),
		"body":     string(body),
	}
	themeCtx, err := r.themeContext(options.Theme, data)
	if err != nil {
		return nil, fmt.Errorf("page renderer: theme: %w", err)
	}
	if themeCtx != nil {
		data["theme"] = themeCtx
	}

	out, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("page renderer: render template: %w", err)
	}
	return []byte(out), nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// metadataList sorts metadata by name so pages are deterministic.
func metadataList(metadata map[string]string) []map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	names := make([]string, 0, len(metadata))
	for name := range metadata {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{"name": name, "content": metadata[name]})
	}
	return out
}
