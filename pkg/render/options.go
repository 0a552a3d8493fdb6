package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carries per-request data for renderers that produce more than
// a bare fragment. Renderers ignore fields they have no use for.
type RenderOptions struct {
	// Title is used by page-level renderers for the document title.
	Title string
	// Lang sets the page language attribute.
	Lang string
	// Metadata is emitted as <meta name=... content=...> pairs by the page
	// renderer.
	Metadata map[string]string
	// Theme holds the resolved partials, tokens and asset resolver for the
	// page renderer. The orchestrator fills it when a theme selector is
	// configured.
	Theme *theme.RendererConfig
}
