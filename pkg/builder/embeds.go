package builder

import (
	"fmt"
	"unicode/utf16"

	"github.com/goliatone/go-mobiledoc/pkg/extensions"
	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

// atom renders Document.Atoms[index]. Unregistered atoms render nothing.
func (p *pass) atom(index int) (*tree.Node, error) {
	atom, err := entryAt("atoms", p.doc.Atoms, index)
	if err != nil {
		return nil, err
	}
	component, ok := p.builder.registry.Atom(atom.Name)
	if !ok {
		return nil, nil
	}

	return component(extensions.AtomContext{
		Env: extensions.Env{
			Name:       atom.Name,
			IsInEditor: false,
			DOM:        extensions.DOMTarget,
		},
		Options: map[string]any{},
		Key:     p.atomKey(atom, index),
		Payload: mergePayload(atom.Payload, p.builder.props),
		Text:    atom.Text,
	}), nil
}

func (p *pass) atomKey(atom model.Atom, index int) string {
	if p.builder.atomKeys == AtomKeyByIndex {
		return fmt.Sprintf("atom-%d", index)
	}
	return fmt.Sprintf("%s-%d", atom.Name, utf16Len(atom.Text))
}

// utf16Len counts UTF-16 code units, the string length JavaScript reports.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if size := utf16.RuneLen(r); size > 0 {
			n += size
		} else {
			n++
		}
	}
	return n
}

// cardSection renders the card referenced by section. Hooks handed to the
// component append to the pass callback list.
func (p *pass) cardSection(section model.CardSection, key string, omission Omission) (*tree.Node, Omission, error) {
	card, err := entryAt("cards", p.doc.Cards, section.CardIndex)
	if err != nil {
		return nil, omission, err
	}
	omission.Name = card.Name

	component, ok := p.builder.registry.Card(card.Name)
	if !ok {
		omission.Reason = ReasonUnknownCard
		return nil, omission, nil
	}

	node := component(extensions.CardContext{
		Env: extensions.CardEnv{
			Env: extensions.Env{
				Name:       card.Name,
				IsInEditor: false,
				DOM:        extensions.DOMTarget,
			},
			DidRender:  p.registerCallback,
			OnTeardown: p.registerCallback,
		},
		Options: map[string]any{},
		Payload: mergePayload(card.Payload, p.builder.props),
		Key:     key,
	})
	if node == nil {
		omission.Reason = ReasonEmptyCard
		return nil, omission, nil
	}
	return node, omission, nil
}
