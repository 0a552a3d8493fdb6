package builder

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-mobiledoc/pkg/extensions"
	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

// Reason explains why a section produced no output.
type Reason string

const (
	ReasonUnsupportedSection Reason = "unsupported section type"
	ReasonUnknownCard        Reason = "card not registered"
	ReasonEmptyCard          Reason = "card rendered nothing"
)

// Omission records a section that was dropped from the output.
type Omission struct {
	Index  int
	Type   model.SectionType
	Name   string
	Reason Reason
}

// Result is the output of one build pass. Sections holds one node per
// section that produced output, in document order. Callbacks are the
// lifecycle hooks cards registered, in registration order, nil entries
// included; they are not invoked.
type Result struct {
	Sections  []*tree.Node
	Callbacks []extensions.Callback
	Omitted   []Omission
}

// Builder turns documents into node trees. A Builder only holds read-only
// configuration, so one instance can serve concurrent Build calls as long as
// the registry is not mutated meanwhile.
type Builder struct {
	registry *extensions.Registry
	props    map[string]any
	atomKeys AtomKeyMode
}

// New constructs a Builder resolving extensions against registry. A nil
// registry behaves like an empty one.
func New(registry *extensions.Registry, options ...Option) *Builder {
	if registry == nil {
		registry = extensions.New()
	}
	b := &Builder{registry: registry}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Render is a one-call shortcut for New(registry,
// WithAdditionalProps(props)).Build(doc).
func Render(doc model.Document, registry *extensions.Registry, props map[string]any) (Result, error) {
	return New(registry, WithAdditionalProps(props)).Build(doc)
}

// Build renders every section of doc. Sections whose type has no builder or
// whose card is not registered are omitted. An out-of-range table index
// aborts the pass with an *IndexError.
func (b *Builder) Build(doc model.Document) (Result, error) {
	p := &pass{builder: b, doc: doc}

	result := Result{Sections: make([]*tree.Node, 0, len(doc.Sections))}
	for idx, section := range doc.Sections {
		node, omission, err := p.section(section, idx)
		if err != nil {
			return Result{}, fmt.Errorf("builder: sections[%d]: %w", idx, err)
		}
		if node == nil {
			result.Omitted = append(result.Omitted, omission)
			continue
		}
		result.Sections = append(result.Sections, node)
	}

	result.Callbacks = p.callbacks
	return result, nil
}

// pass carries the mutable state of a single Build call.
type pass struct {
	builder   *Builder
	doc       model.Document
	callbacks []extensions.Callback
	pending   []pendingElement
}

// pendingElement is a placeholder node whose override component runs once
// the enclosing section's children are complete.
type pendingElement struct {
	node      *tree.Node
	name      string
	component extensions.ElementComponent
}

// registerCallback appends cb as given. A nil cb is kept so Callbacks
// mirrors every DidRender and OnTeardown call; callers invoking the list must
// skip nil entries.
func (p *pass) registerCallback(cb extensions.Callback) {
	p.callbacks = append(p.callbacks, cb)
}

// resolvePending runs override components innermost first and replaces each
// placeholder in place with the component's output.
func (p *pass) resolvePending() {
	for i := len(p.pending) - 1; i >= 0; i-- {
		el := p.pending[i]
		rendered := el.component(extensions.ElementProps{
			Name:     el.name,
			Key:      el.node.Key,
			Props:    cloneProps(el.node.Props),
			Children: el.node.Children,
		})

		var replacement tree.Node
		if rendered == nil {
			replacement = *tree.Fragment(el.node.Key)
		} else {
			replacement = *rendered
		}
		if replacement.Key == "" {
			replacement.Key = el.node.Key
		}
		*el.node = replacement
	}
	p.pending = p.pending[:0]
}

func sectionKey(index int) string {
	return strconv.Itoa(index)
}
