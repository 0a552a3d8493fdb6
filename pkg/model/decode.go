package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type wireDocument struct {
	Version  string            `json:"version"`
	Atoms    []json.RawMessage `json:"atoms"`
	Cards    []json.RawMessage `json:"cards"`
	Markups  []json.RawMessage `json:"markups"`
	Sections []json.RawMessage `json:"sections"`
}

// Decode parses an encoded mobiledoc. Errors name the offending table entry,
// e.g. "model: sections[2].markers[0]: ...".
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// UnmarshalJSON implements json.Unmarshaler for the array-encoded format.
func (d *Document) UnmarshalJSON(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("model: document is empty")
	}

	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("model: decode document: %w", err)
	}

	doc := Document{Version: wire.Version}

	doc.Atoms = make([]Atom, 0, len(wire.Atoms))
	for idx, raw := range wire.Atoms {
		atom, err := decodeAtom(raw)
		if err != nil {
			return fmt.Errorf("model: atoms[%d]: %w", idx, err)
		}
		doc.Atoms = append(doc.Atoms, atom)
	}

	doc.Cards = make([]Card, 0, len(wire.Cards))
	for idx, raw := range wire.Cards {
		card, err := decodeCard(raw)
		if err != nil {
			return fmt.Errorf("model: cards[%d]: %w", idx, err)
		}
		doc.Cards = append(doc.Cards, card)
	}

	doc.Markups = make([]Markup, 0, len(wire.Markups))
	for idx, raw := range wire.Markups {
		markup, err := decodeMarkup(raw)
		if err != nil {
			return fmt.Errorf("model: markups[%d]: %w", idx, err)
		}
		doc.Markups = append(doc.Markups, markup)
	}

	doc.Sections = make([]Section, 0, len(wire.Sections))
	for idx, raw := range wire.Sections {
		section, err := decodeSection(raw)
		if err != nil {
			return fmt.Errorf("model: sections[%d]%w", idx, err)
		}
		doc.Sections = append(doc.Sections, section)
	}

	*d = doc
	return nil
}

func decodeTuple(raw json.RawMessage, minLen int) ([]json.RawMessage, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(raw, &tuple); err != nil {
		return nil, fmt.Errorf("expected array: %w", err)
	}
	if len(tuple) < minLen {
		return nil, fmt.Errorf("expected at least %d entries, got %d", minLen, len(tuple))
	}
	return tuple, nil
}

func decodeAtom(raw json.RawMessage) (Atom, error) {
	tuple, err := decodeTuple(raw, 2)
	if err != nil {
		return Atom{}, err
	}
	var atom Atom
	if err := json.Unmarshal(tuple[0], &atom.Name); err != nil {
		return Atom{}, fmt.Errorf("name: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &atom.Text); err != nil {
		return Atom{}, fmt.Errorf("text: %w", err)
	}
	if len(tuple) > 2 {
		if err := json.Unmarshal(tuple[2], &atom.Payload); err != nil {
			return Atom{}, fmt.Errorf("payload: %w", err)
		}
	}
	return atom, nil
}

func decodeCard(raw json.RawMessage) (Card, error) {
	tuple, err := decodeTuple(raw, 1)
	if err != nil {
		return Card{}, err
	}
	var card Card
	if err := json.Unmarshal(tuple[0], &card.Name); err != nil {
		return Card{}, fmt.Errorf("name: %w", err)
	}
	if len(tuple) > 1 {
		if err := json.Unmarshal(tuple[1], &card.Payload); err != nil {
			return Card{}, fmt.Errorf("payload: %w", err)
		}
	}
	return card, nil
}

// decodeMarkup keeps only the first attribute pair; later pairs are ignored.
func decodeMarkup(raw json.RawMessage) (Markup, error) {
	tuple, err := decodeTuple(raw, 1)
	if err != nil {
		return Markup{}, err
	}
	var markup Markup
	if err := json.Unmarshal(tuple[0], &markup.Tag); err != nil {
		return Markup{}, fmt.Errorf("tag: %w", err)
	}
	if len(tuple) < 2 {
		return markup, nil
	}

	var attrs []any
	if err := json.Unmarshal(tuple[1], &attrs); err != nil {
		return Markup{}, fmt.Errorf("attributes: %w", err)
	}
	if len(attrs) < 2 {
		return markup, nil
	}
	name, ok := attrs[0].(string)
	if !ok {
		return Markup{}, fmt.Errorf("attributes: name must be a string, got %T", attrs[0])
	}
	markup.Attribute = &Attribute{Name: name, Value: stringify(attrs[1])}
	return markup, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func decodeSection(raw json.RawMessage) (Section, error) {
	tuple, err := decodeTuple(raw, 1)
	if err != nil {
		return nil, fmt.Errorf(": %w", err)
	}
	var sectionType SectionType
	if err := json.Unmarshal(tuple[0], &sectionType); err != nil {
		return nil, fmt.Errorf(".type: %w", err)
	}

	switch sectionType {
	case MarkupSectionType:
		if len(tuple) < 3 {
			return nil, fmt.Errorf(": markup section expects [type, tag, markers]")
		}
		var section MarkupSection
		if err := json.Unmarshal(tuple[1], &section.Tag); err != nil {
			return nil, fmt.Errorf(".tag: %w", err)
		}
		markers, err := decodeMarkers(tuple[2], ".markers")
		if err != nil {
			return nil, err
		}
		section.Markers = markers
		return section, nil
	case ListSectionType:
		if len(tuple) < 3 {
			return nil, fmt.Errorf(": list section expects [type, tag, items]")
		}
		var section ListSection
		if err := json.Unmarshal(tuple[1], &section.Tag); err != nil {
			return nil, fmt.Errorf(".tag: %w", err)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(tuple[2], &items); err != nil {
			return nil, fmt.Errorf(".items: expected array: %w", err)
		}
		section.Items = make([][]Marker, 0, len(items))
		for idx, item := range items {
			markers, err := decodeMarkers(item, fmt.Sprintf(".items[%d]", idx))
			if err != nil {
				return nil, err
			}
			section.Items = append(section.Items, markers)
		}
		return section, nil
	case CardSectionType:
		if len(tuple) < 2 {
			return nil, fmt.Errorf(": card section expects [type, cardIndex]")
		}
		var section CardSection
		if err := json.Unmarshal(tuple[1], &section.CardIndex); err != nil {
			return nil, fmt.Errorf(".cardIndex: %w", err)
		}
		return section, nil
	case ImageSectionType:
		var section ImageSection
		if len(tuple) > 1 {
			if err := json.Unmarshal(tuple[1], &section.Src); err != nil {
				return nil, fmt.Errorf(".src: %w", err)
			}
		}
		return section, nil
	default:
		return UnknownSection{Type: sectionType, Raw: append([]byte(nil), raw...)}, nil
	}
}

func decodeMarkers(raw json.RawMessage, path string) ([]Marker, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%s: expected array: %w", path, err)
	}
	markers := make([]Marker, 0, len(entries))
	for idx, entry := range entries {
		marker, err := decodeMarker(entry)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", path, idx, err)
		}
		markers = append(markers, marker)
	}
	return markers, nil
}

func decodeMarker(raw json.RawMessage) (Marker, error) {
	tuple, err := decodeTuple(raw, 4)
	if err != nil {
		return Marker{}, err
	}
	var marker Marker
	if err := json.Unmarshal(tuple[0], &marker.Kind); err != nil {
		return Marker{}, fmt.Errorf("type: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &marker.OpenTypes); err != nil {
		return Marker{}, fmt.Errorf("openTypes: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &marker.CloseCount); err != nil {
		return Marker{}, fmt.Errorf("closeCount: %w", err)
	}

	switch marker.Kind {
	case TextMarker:
		if err := json.Unmarshal(tuple[3], &marker.Text); err != nil {
			return Marker{}, fmt.Errorf("value: %w", err)
		}
	case AtomMarker:
		if err := json.Unmarshal(tuple[3], &marker.AtomIndex); err != nil {
			return Marker{}, fmt.Errorf("value: %w", err)
		}
	}
	return marker, nil
}
