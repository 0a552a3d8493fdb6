// Package jsontree serializes built documents as a JSON node tree, for hosts
// that render on the client.
package jsontree

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/render"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

// Name is the registry name of the renderer.
const Name = "json"

// Node is the JSON shape of a tree node.
type Node struct {
	Type     string         `json:"type"`
	Tag      string         `json:"tag,omitempty"`
	Key      string         `json:"key,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []Node         `json:"children,omitempty"`
}

// Omission is the JSON shape of a dropped section.
type Omission struct {
	Index  int    `json:"index"`
	Type   int    `json:"type"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Payload is the top-level document written by the renderer.
type Payload struct {
	Sections []Node     `json:"sections"`
	Omitted  []Omission `json:"omitted,omitempty"`
}

// Option customises the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer writes a Payload.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, result builder.Result, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := Convert(result)

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(payload, "", r.indent)
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: %w", err)
	}
	return out, nil
}

// Convert maps a result to its JSON payload. Function-valued props are
// dropped since they cannot be encoded.
func Convert(result builder.Result) Payload {
	payload := Payload{Sections: make([]Node, 0, len(result.Sections))}
	for _, section := range result.Sections {
		if section == nil {
			continue
		}
		payload.Sections = append(payload.Sections, convertNode(section))
	}
	for _, omission := range result.Omitted {
		payload.Omitted = append(payload.Omitted, Omission{
			Index:  omission.Index,
			Type:   int(omission.Type),
			Name:   omission.Name,
			Reason: string(omission.Reason),
		})
	}
	return payload
}

func convertNode(node *tree.Node) Node {
	out := Node{
		Type:  node.Kind.String(),
		Tag:   node.Tag,
		Key:   node.Key,
		Props: encodableProps(node.Props),
		Text:  node.Text,
	}
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		out.Children = append(out.Children, convertNode(child))
	}
	return out
}

func encodableProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for key, value := range props {
		if value != nil && reflect.TypeOf(value).Kind() == reflect.Func {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
