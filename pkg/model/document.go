package model

// Version is the mobiledoc format revision this package understands.
const Version = "0.3.1"

// SectionType is the numeric tag that leads every encoded section.
type SectionType int

const (
	MarkupSectionType SectionType = 1
	ImageSectionType  SectionType = 2
	ListSectionType   SectionType = 3
	CardSectionType   SectionType = 10
)

// MarkerKind distinguishes text markers from atom markers.
type MarkerKind int

const (
	TextMarker MarkerKind = 0
	AtomMarker MarkerKind = 1
)

// Document is the decoded mobiledoc payload.
type Document struct {
	Version  string
	Sections []Section
	Markups  []Markup
	Atoms    []Atom
	Cards    []Card
}

// Section is implemented by every section variant.
type Section interface {
	SectionType() SectionType
}

// MarkupSection is a block element (paragraph, heading, blockquote, ...)
// whose content is described by a flat marker list.
type MarkupSection struct {
	Tag     string
	Markers []Marker
}

// SectionType implements Section.
func (MarkupSection) SectionType() SectionType { return MarkupSectionType }

// ListSection is an ordered or unordered list; each item is its own marker
// list.
type ListSection struct {
	Tag   string
	Items [][]Marker
}

// SectionType implements Section.
func (ListSection) SectionType() SectionType { return ListSectionType }

// CardSection embeds the card at CardIndex of Document.Cards.
type CardSection struct {
	CardIndex int
}

// SectionType implements Section.
func (CardSection) SectionType() SectionType { return CardSectionType }

// ImageSection is part of the format but has no builder.
type ImageSection struct {
	Src string
}

// SectionType implements Section.
func (ImageSection) SectionType() SectionType { return ImageSectionType }

// UnknownSection keeps sections whose type tag is not recognised so callers
// can inspect them. Raw holds the encoded section.
type UnknownSection struct {
	Type SectionType
	Raw  []byte
}

// SectionType implements Section.
func (s UnknownSection) SectionType() SectionType { return s.Type }

// Marker is one run of content inside a section. OpenTypes index
// Document.Markups; CloseCount is how many open markups end after the
// content. Text is set for text markers, AtomIndex for atom markers.
type Marker struct {
	Kind       MarkerKind
	OpenTypes  []int
	CloseCount int
	Text       string
	AtomIndex  int
}

// Markup is an inline formatting definition. An empty Tag marks a slot that
// opens nothing.
type Markup struct {
	Tag       string
	Attribute *Attribute
}

// Attribute is the single name/value pair a markup may carry.
type Attribute struct {
	Name  string
	Value string
}

// Atom is an inline embed resolved by name.
type Atom struct {
	Name    string
	Text    string
	Payload map[string]any
}

// Card is a block embed resolved by name.
type Card struct {
	Name    string
	Payload map[string]any
}

// TextMarkerOf is a convenience constructor used by tests and fixtures.
func TextMarkerOf(openTypes []int, closeCount int, text string) Marker {
	return Marker{Kind: TextMarker, OpenTypes: openTypes, CloseCount: closeCount, Text: text}
}

// AtomMarkerOf builds an atom marker referencing Document.Atoms[atomIndex].
func AtomMarkerOf(openTypes []int, closeCount int, atomIndex int) Marker {
	return Marker{Kind: AtomMarker, OpenTypes: openTypes, CloseCount: closeCount, AtomIndex: atomIndex}
}
