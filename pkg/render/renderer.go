package render

import (
	"context"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
)

// Renderer serializes a built document (HTML, JSON, a full page, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, result builder.Result, options RenderOptions) ([]byte, error)
}
