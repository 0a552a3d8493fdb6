package builder

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

const listItemTag = "li"

// section dispatches on the section variant. A nil node with a nil error
// means the section produced no output; the Omission says why.
func (p *pass) section(section model.Section, index int) (*tree.Node, Omission, error) {
	key := sectionKey(index)
	omission := Omission{Index: index, Type: sectionType(section), Reason: ReasonUnsupportedSection}

	switch s := section.(type) {
	case model.MarkupSection:
		node, err := p.markupSection(s, key)
		return node, omission, err
	case *model.MarkupSection:
		if s == nil {
			return nil, omission, nil
		}
		node, err := p.markupSection(*s, key)
		return node, omission, err
	case model.ListSection:
		node, err := p.listSection(s, key)
		return node, omission, err
	case *model.ListSection:
		if s == nil {
			return nil, omission, nil
		}
		node, err := p.listSection(*s, key)
		return node, omission, err
	case model.CardSection:
		return p.cardSection(s, key, omission)
	case *model.CardSection:
		if s == nil {
			return nil, omission, nil
		}
		return p.cardSection(*s, key, omission)
	default:
		return nil, omission, nil
	}
}

// sectionType reports the variant of section without calling methods on nil
// pointers. A nil interface or nil *UnknownSection reports 0.
func sectionType(section model.Section) model.SectionType {
	switch s := section.(type) {
	case nil:
		return 0
	case *model.MarkupSection:
		return model.MarkupSectionType
	case *model.ListSection:
		return model.ListSectionType
	case *model.CardSection:
		return model.CardSectionType
	case *model.ImageSection:
		return model.ImageSectionType
	case *model.UnknownSection:
		if s == nil {
			return 0
		}
		return s.Type
	default:
		return section.SectionType()
	}
}

// markupSection builds a block element, or the registered section override
// for its tag, and fills it from the section markers.
func (p *pass) markupSection(section model.MarkupSection, key string) (*tree.Node, error) {
	root := tree.Element(section.Tag, key, nil)
	if component, ok := p.builder.registry.Section(section.Tag); ok {
		root.Props = cloneProps(p.builder.props)
		p.pending = append(p.pending, pendingElement{node: root, name: section.Tag, component: component})
	}

	if _, err := p.renderMarkers(root, section.Markers, key); err != nil {
		return nil, err
	}
	p.resolvePending()
	return root, nil
}

// listSection builds each item on its own list item root so open markups
// never leak from one item into the next.
func (p *pass) listSection(section model.ListSection, key string) (*tree.Node, error) {
	list := tree.Element(section.Tag, key, nil)
	for idx, markers := range section.Items {
		itemKey := strconv.Itoa(idx)
		item := tree.Element(listItemTag, itemKey, nil)
		if _, err := p.renderMarkers(item, markers, itemKey); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", idx, err)
		}
		list.Append(item)
	}
	p.resolvePending()
	return list, nil
}
