package builder

import (
	"fmt"

	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

// renderMarkers rebuilds the nested markup encoded by markers below root and
// returns root.
//
// The stack starts with root only. For every marker the open types are
// pushed, the content is appended to the top of the stack and CloseCount
// entries are popped. A markup with an empty tag opens nothing and cancels
// one close instead. Pops never remove root.
func (p *pass) renderMarkers(root *tree.Node, markers []model.Marker, parentKey string) (*tree.Node, error) {
	stack := make([]*tree.Node, 1, 8)
	stack[0] = root

	for markerIdx, marker := range markers {
		closeCount := marker.CloseCount

		for openIdx, openType := range marker.OpenTypes {
			markup, err := entryAt("markups", p.doc.Markups, openType)
			if err != nil {
				return nil, fmt.Errorf("markers[%d]: %w", markerIdx, err)
			}
			if markup.Tag == "" {
				closeCount--
				continue
			}

			node := p.openMarkup(markup, fmt.Sprintf("%s-%d-%d", parentKey, markerIdx, openIdx))
			stack[len(stack)-1].Append(node)
			stack = append(stack, node)
		}

		top := stack[len(stack)-1]
		switch marker.Kind {
		case model.TextMarker:
			top.Append(tree.Text(marker.Text))
		case model.AtomMarker:
			atom, err := p.atom(marker.AtomIndex)
			if err != nil {
				return nil, fmt.Errorf("markers[%d]: %w", markerIdx, err)
			}
			top.Append(atom)
		}

		for ; closeCount > 0 && len(stack) > 1; closeCount-- {
			stack = stack[:len(stack)-1]
		}
	}

	return root, nil
}

// openMarkup builds the element for a markup. When the markup registry has
// an override for the tag, the element is a placeholder resolved after the
// section completes.
func (p *pass) openMarkup(markup model.Markup, key string) *tree.Node {
	node := tree.Element(markup.Tag, key, attributeProps(markup.Attribute))
	if component, ok := p.builder.registry.Markup(markup.Tag); ok {
		p.pending = append(p.pending, pendingElement{node: node, name: markup.Tag, component: component})
	}
	return node
}

func attributeProps(attr *model.Attribute) map[string]any {
	if attr == nil || attr.Name == "" {
		return nil
	}
	return map[string]any{attr.Name: attr.Value}
}
