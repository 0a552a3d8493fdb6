package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

// Transformer mutates a built result before it is rendered. Implementations
// can rewrite tags, inject props, or drop nodes.
type Transformer interface {
	Transform(ctx context.Context, result *builder.Result) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, result *builder.Result) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, result *builder.Result) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, result)
}

// JSONPresetTransformer applies declarative element patches loaded from JSON.
// Patches are keyed by the element tag they match:
//
//	{
//	  "elements": {
//	    "a":   {"props": {"rel": "noopener"}},
//	    "h1":  {"rename": "h2"}
//	  }
//	}
//
// Props from the preset never replace props already present on the node.
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Elements map[string]jsonElementPatch `json:"elements"`
}

type jsonElementPatch struct {
	Rename string         `json:"rename"`
	Props  map[string]any `json:"props"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for tag, patch := range document.Elements {
		if strings.TrimSpace(tag) == "" {
			return nil, errors.New("json preset transformer: element tag is required")
		}
		if patch.Rename != "" && strings.TrimSpace(patch.Rename) == "" {
			return nil, fmt.Errorf("json preset transformer: element %q: rename is blank", tag)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the element patches to every section tree.
func (t *JSONPresetTransformer) Transform(ctx context.Context, result *builder.Result) error {
	if result == nil {
		return errors.New("json preset transformer: result is nil")
	}
	if len(t.document.Elements) == 0 {
		return nil
	}

	for _, section := range result.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		tree.Walk(section, func(node *tree.Node, _ int) bool {
			if node.Kind != tree.KindElement {
				return true
			}
			if patch, ok := t.document.Elements[node.Tag]; ok {
				applyElementPatch(node, patch)
			}
			return true
		})
	}
	return nil
}

func applyElementPatch(node *tree.Node, patch jsonElementPatch) {
	if len(patch.Props) > 0 {
		node.Props = mergeMissing(node.Props, patch.Props)
	}
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		node.Tag = rename
	}
}

func mergeMissing(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		if _, exists := dst[key]; !exists {
			dst[key] = value
		}
	}
	return dst
}
