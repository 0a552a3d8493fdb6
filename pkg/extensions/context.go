package extensions

import "github.com/goliatone/go-mobiledoc/pkg/tree"

// DOMTarget is the rendering target reported to atoms and cards.
const DOMTarget = "dom"

// Callback is a lifecycle hook registered by a card. The builder collects
// callbacks but never invokes them.
type Callback func()

// Env describes the environment an atom is rendered in.
type Env struct {
	Name       string
	IsInEditor bool
	DOM        string
}

// CardEnv extends Env with the lifecycle hooks available to cards. Both hooks
// append to the same per-render callback list.
type CardEnv struct {
	Env
	DidRender  func(Callback)
	OnTeardown func(Callback)
}

// AtomContext is passed to atom components.
type AtomContext struct {
	Env     Env
	Options map[string]any
	Key     string
	Payload map[string]any
	Text    string
}

// CardContext is passed to card components.
type CardContext struct {
	Env     CardEnv
	Options map[string]any
	Payload map[string]any
	Key     string
}

// ElementProps is passed to markup and section components. Props holds the
// markup attribute (for markups) or the additional render properties (for
// sections); Children is the content built for the element.
type ElementProps struct {
	Name     string
	Key      string
	Props    map[string]any
	Children []*tree.Node
}

// AtomComponent renders an inline atom.
type AtomComponent func(ctx AtomContext) *tree.Node

// CardComponent renders a block card.
type CardComponent func(ctx CardContext) *tree.Node

// ElementComponent renders a markup or section override.
type ElementComponent func(props ElementProps) *tree.Node
