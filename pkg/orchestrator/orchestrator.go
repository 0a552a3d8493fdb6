package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/extensions"
	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/render"
	"github.com/goliatone/go-mobiledoc/pkg/renderers/html"
	"github.com/goliatone/go-mobiledoc/pkg/renderers/jsontree"
	"github.com/goliatone/go-mobiledoc/pkg/renderers/page"
	"github.com/goliatone/go-mobiledoc/pkg/source"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithExtensions sets the atom, card, markup and section components.
func WithExtensions(registry *extensions.Registry) Option {
	return func(o *Orchestrator) {
		o.extensions = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithBuilderOptions forwards options to every builder the orchestrator
// creates, e.g. builder.WithAdditionalProps or builder.WithAtomKeys.
func WithBuilderOptions(options ...builder.Option) Option {
	return func(o *Orchestrator) {
		o.builderOptions = append(o.builderOptions, options...)
	}
}

// WithTransformer registers a Transformer run after building and before
// rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from a mobiledoc source to rendered
// output: load, decode, build, transform, render.
type Orchestrator struct {
	loader          source.Loader
	registry        *render.Registry
	extensions      *extensions.Registry
	builderOptions  []builder.Option
	transformer     Transformer
	logger          *zap.Logger
	defaultRenderer string
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	defaultTheme    string
	defaultVariant  string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Source identifies where the mobiledoc lives. Ignored when Document or
	// Raw is supplied.
	Source source.Source

	// Document allows callers to bypass loading and decoding.
	Document *model.Document

	// Raw holds an encoded mobiledoc, bypassing the loader.
	Raw []byte

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant pick the theme passed to the renderer. They
	// are ignored unless a theme selector is configured, and a preset
	// RenderOptions.Theme wins over both.
	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Output is the rendered document plus what the build collected.
type Output struct {
	Body        []byte
	ContentType string
	// Callbacks are the card lifecycle hooks, left for the caller to invoke.
	Callbacks []extensions.Callback
	Omitted   []builder.Omission
}

// Generate executes the load, decode, build and render sequence.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Output, error) {
	if ctx == nil {
		return Output{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Output{}, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return Output{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Output{}, err
	}

	result, err := builder.New(o.extensions, o.builderOptions...).Build(doc)
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: build document: %w", err)
	}
	for _, omission := range result.Omitted {
		o.logger.Debug("Section omitted",
			zap.Int("index", omission.Index),
			zap.Int("type", int(omission.Type)),
			zap.String("name", omission.Name),
			zap.String("reason", string(omission.Reason)))
	}

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &result); err != nil {
			return Output{}, fmt.Errorf("orchestrator: transform result: %w", err)
		}
	}

	options := req.RenderOptions
	if options.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return Output{}, fmt.Errorf("orchestrator: resolve theme: %w", err)
		}
		if cfg != nil {
			o.logger.Debug("Theme resolved", zap.String("theme", cfg.Theme), zap.String("variant", cfg.Variant))
			options.Theme = cfg
		}
	}

	body, err := renderer.Render(ctx, result, options)
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("Document rendered",
		zap.String("renderer", renderer.Name()),
		zap.Int("sections", len(result.Sections)),
		zap.Int("callbacks", len(result.Callbacks)),
		zap.Int("bytes", len(body)))

	return Output{
		Body:        body,
		ContentType: renderer.ContentType(),
		Callbacks:   result.Callbacks,
		Omitted:     result.Omitted,
	}, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (model.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}

	raw := req.Raw
	if len(raw) == 0 {
		if req.Source == nil {
			return model.Document{}, errors.New("orchestrator: source, raw or document is required")
		}
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return model.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
		}
		o.logger.Debug("Document loaded", zap.String("location", loaded.Location()), zap.Int("bytes", len(loaded.Raw())))
		raw = loaded.Raw()
	}

	doc, err := model.Decode(raw)
	if err != nil {
		return model.Document{}, fmt.Errorf("orchestrator: decode document: %w", err)
	}
	if doc.Version != "" && doc.Version != model.Version {
		o.logger.Warn("Unexpected mobiledoc version", zap.String("version", doc.Version), zap.String("supported", model.Version))
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.loader == nil {
		o.loader = source.NewLoader()
	}
	if o.extensions == nil {
		o.extensions = extensions.New()
	}
	if o.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.registry = registry
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
}

// DefaultRegistry returns a registry holding the html, json and page
// renderers.
func DefaultRegistry() (*render.Registry, error) {
	pageRenderer, err := page.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default page renderer: %w", err)
	}
	return render.NewRegistry(html.New(), jsontree.New(), pageRenderer), nil
}
