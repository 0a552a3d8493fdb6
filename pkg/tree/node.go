// Package tree holds the renderable node tree produced by the builder.
package tree

import "strings"

// Kind identifies what a Node represents.
type Kind uint8

const (
	// KindElement is a tagged element with props and children.
	KindElement Kind = iota
	// KindText is a literal text run.
	KindText
	// KindRaw carries pre-rendered markup that serializers emit verbatim
	// (after sanitising, where they support it).
	KindRaw
	// KindFragment groups children without a wrapping element.
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindRaw:
		return "raw"
	case KindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Node is one entry of the output tree. Tag is set for elements, Text for
// text and raw nodes. Key is a stable identity derived from the node's
// position in the document.
type Node struct {
	Kind     Kind
	Tag      string
	Key      string
	Props    map[string]any
	Text     string
	Children []*Node
}

// Element returns an element node with no children.
func Element(tag, key string, props map[string]any) *Node {
	return &Node{Kind: KindElement, Tag: tag, Key: key, Props: props}
}

// Text returns a text node.
func Text(value string) *Node {
	return &Node{Kind: KindText, Text: value}
}

// Raw returns a node whose content is emitted as markup.
func Raw(markup string) *Node {
	return &Node{Kind: KindRaw, Text: markup}
}

// Fragment wraps children without an element.
func Fragment(key string, children ...*Node) *Node {
	return &Node{Kind: KindFragment, Key: key, Children: children}
}

// Append adds children, skipping nil entries.
func (n *Node) Append(children ...*Node) {
	for _, child := range children {
		if child == nil {
			continue
		}
		n.Children = append(n.Children, child)
	}
}

// TextContent concatenates every text descendant in document order. Raw
// nodes are skipped.
func (n *Node) TextContent() string {
	var sb strings.Builder
	Walk(n, func(node *Node, _ int) bool {
		if node.Kind == KindText {
			sb.WriteString(node.Text)
		}
		return true
	})
	return sb.String()
}

// Walk visits n and its descendants depth first, pre-order. depth is 0 for n.
// Returning false from visit skips the node's children.
func Walk(n *Node, visit func(node *Node, depth int) bool) {
	if n == nil || visit == nil {
		return
	}
	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(top.node, top.depth) {
			continue
		}
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			if child := top.node.Children[i]; child != nil {
				stack = append(stack, frame{node: child, depth: top.depth + 1})
			}
		}
	}
}

// Depth returns the number of levels below n, 0 for a leaf.
func Depth(n *Node) int {
	deepest := 0
	Walk(n, func(_ *Node, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}
