// Package mobiledoc renders mobiledoc 0.3.1 documents. The root package
// re-exports the common entry points; the pkg/ packages hold the decoder,
// builder, extension registry and renderers.
package mobiledoc

import (
	"context"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/extensions"
	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/orchestrator"
	"github.com/goliatone/go-mobiledoc/pkg/render"
	"github.com/goliatone/go-mobiledoc/pkg/source"
)

// Version is the mobiledoc format version understood by the decoder.
const Version = model.Version

// Document is a decoded mobiledoc.
type Document = model.Document

// Registry holds atom, card, markup and section components.
type Registry = extensions.Registry

// Result is the node tree and callbacks produced by one build.
type Result = builder.Result

// RenderOptions carries page level settings such as title and language.
type RenderOptions = render.RenderOptions

// Output is what Generate returns.
type Output = orchestrator.Output

// Decode parses an encoded mobiledoc.
func Decode(data []byte) (Document, error) {
	return model.Decode(data)
}

// NewRegistry returns an empty component registry.
func NewRegistry() *Registry {
	return extensions.New()
}

// Build decodes data and builds its node tree with registry, merging props
// into every atom and card payload.
func Build(data []byte, registry *Registry, props map[string]any) (Result, error) {
	doc, err := Decode(data)
	if err != nil {
		return Result{}, err
	}
	return builder.Render(doc, registry, props)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders an encoded mobiledoc to HTML fragments.
func RenderHTML(ctx context.Context, data []byte, registry *Registry, options ...orchestrator.Option) (Output, error) {
	options = append([]orchestrator.Option{orchestrator.WithExtensions(registry)}, options...)
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Raw: data})
}

// RenderFile loads the mobiledoc at path and renders it with the named
// renderer. An empty renderer name selects HTML.
func RenderFile(ctx context.Context, path, rendererName string, options ...orchestrator.Option) (Output, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source.SourceFromFile(path),
		Renderer: rendererName,
	})
}
