// Package html serializes built documents to HTML fragments using
// golang.org/x/net/html. Element tags outside [A-Za-z][A-Za-z0-9-]* are
// never emitted. By default raw nodes produced by declarative extensions are
// sanitized with a bluemonday policy, and elements built from the document
// lose event handler attributes, script URLs and scripting tags.
package html

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/render"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

// Name is the registry name of the renderer.
const Name = "html"

// Option customises the renderer.
type Option func(*Renderer)

// WithSanitizer replaces the policy applied to raw nodes. The default is
// bluemonday.UGCPolicy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// WithoutSanitizer emits raw nodes, attributes and scripting elements
// verbatim. Only use it when documents and every atom and card template are
// trusted. Invalid tag names are still folded.
func WithoutSanitizer() Option {
	return func(r *Renderer) {
		r.sanitize = false
	}
}

// WithSanitizedOutput additionally runs the policy over the whole rendered
// output, which also removes section and markup tags the policy rejects.
func WithSanitizedOutput() Option {
	return func(r *Renderer) {
		r.sanitizeOutput = true
	}
}

// WithSeparator sets the string written between top-level sections.
// Defaults to a newline.
func WithSeparator(sep string) Option {
	return func(r *Renderer) {
		r.separator = sep
	}
}

// Renderer writes each section as an HTML fragment.
type Renderer struct {
	policy         *bluemonday.Policy
	sanitize       bool
	sanitizeOutput bool
	separator      string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying options.
func New(options ...Option) *Renderer {
	r := &Renderer{
		policy:      bluemonday.UGCPolicy(),
		sanitize:    true,
		separator:   "\n",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes every section of result, separated by the configured
// separator.
func (r *Renderer) Render(ctx context.Context, result builder.Result, _ render.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	for idx, section := range result.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if idx > 0 {
			buf.WriteString(r.separator)
		}
		if err := r.write(&buf, section); err != nil {
			return nil, fmt.Errorf("html renderer: section %d: %w", idx, err)
		}
	}

	if r.sanitizeOutput {
		return r.policy.SanitizeBytes(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// RenderNode serializes a single node.
func (r *Renderer) RenderNode(node *tree.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.write(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) write(buf *bytes.Buffer, node *tree.Node) error {
	for _, converted := range r.convert(node) {
		if err := xhtml.Render(buf, converted); err != nil {
			return err
		}
	}
	return nil
}

// convert maps a tree node to HTML nodes. Fragments, elements without a tag
// and elements with an invalid tag contribute their children only.
func (r *Renderer) convert(node *tree.Node) []*xhtml.Node {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case tree.KindText:
		return []*xhtml.Node{{Type: xhtml.TextNode, Data: node.Text}}
	case tree.KindRaw:
		markup := node.Text
		if r.sanitize {
			markup = r.policy.Sanitize(markup)
		}
		return []*xhtml.Node{{Type: xhtml.RawNode, Data: markup}}
	case tree.KindElement:
		if validTagName(node.Tag) {
			tag := strings.ToLower(node.Tag)
			if r.sanitize {
				switch elementPolicy(tag) {
				case dropElement:
					return nil
				case foldElement:
					return r.convertChildren(node)
				}
			}
			el := &xhtml.Node{
				Type:     xhtml.ElementNode,
				Data:     tag,
				DataAtom: atom.Lookup([]byte(tag)),
				Attr:     attributes(node.Props, r.sanitize),
			}
			for _, child := range node.Children {
				for _, converted := range r.convert(child) {
					el.AppendChild(converted)
				}
			}
			return []*xhtml.Node{el}
		}
	}
	return r.convertChildren(node)
}

func (r *Renderer) convertChildren(node *tree.Node) []*xhtml.Node {
	var out []*xhtml.Node
	for _, child := range node.Children {
		out = append(out, r.convert(child)...)
	}
	return out
}

var propAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

// attributes converts props to sorted HTML attributes. Nil, false and
// function values are dropped; true renders as an empty attribute. With
// sanitize set, event handlers and unsafe URLs are dropped too.
func attributes(props map[string]any, sanitize bool) []xhtml.Attribute {
	if len(props) == 0 {
		return nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)

	attrs := make([]xhtml.Attribute, 0, len(names))
	for _, name := range names {
		value, ok := attributeValue(props[name])
		if !ok || !validAttributeName(name) {
			continue
		}
		if alias, exists := propAliases[name]; exists {
			name = alias
		}
		if sanitize && !safeAttribute(name, value) {
			continue
		}
		attrs = append(attrs, xhtml.Attribute{Key: name, Val: value})
	}
	return attrs
}

func attributeValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return "", v
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	case func():
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= ' ', r == '"', r == '\'', r == '>', r == '/', r == '=', r == '<', r == 0x7f:
			return false
		}
	}
	return true
}
