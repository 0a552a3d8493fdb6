package extensions

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Kind names one of the four extension tables.
type Kind string

const (
	KindAtom    Kind = "atom"
	KindCard    Kind = "card"
	KindMarkup  Kind = "markup"
	KindSection Kind = "section"
)

// Registry holds the atom, card, markup and section components keyed by
// name. Names are matched exactly. A name can be registered once per kind, so
// the first registration wins.
type Registry struct {
	mu       sync.RWMutex
	atoms    map[string]AtomComponent
	cards    map[string]CardComponent
	markups  map[string]ElementComponent
	sections map[string]ElementComponent
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		atoms:    make(map[string]AtomComponent),
		cards:    make(map[string]CardComponent),
		markups:  make(map[string]ElementComponent),
		sections: make(map[string]ElementComponent),
	}
}

// Clone returns a copy of the registry that can be extended without
// affecting the original.
func (r *Registry) Clone() *Registry {
	cloned := New()
	if r == nil {
		return cloned
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, component := range r.atoms {
		cloned.atoms[name] = component
	}
	for name, component := range r.cards {
		cloned.cards[name] = component
	}
	for name, component := range r.markups {
		cloned.markups[name] = component
	}
	for name, component := range r.sections {
		cloned.sections[name] = component
	}
	return cloned
}

// RegisterAtom adds an atom component.
func (r *Registry) RegisterAtom(name string, component AtomComponent) error {
	if component == nil {
		return fmt.Errorf("extensions: atom %q component is nil", name)
	}
	return register(r, r.atoms, KindAtom, name, component)
}

// RegisterCard adds a card component.
func (r *Registry) RegisterCard(name string, component CardComponent) error {
	if component == nil {
		return fmt.Errorf("extensions: card %q component is nil", name)
	}
	return register(r, r.cards, KindCard, name, component)
}

// RegisterMarkup adds a component overriding the element built for a markup
// tag.
func (r *Registry) RegisterMarkup(name string, component ElementComponent) error {
	if component == nil {
		return fmt.Errorf("extensions: markup %q component is nil", name)
	}
	return register(r, r.markups, KindMarkup, name, component)
}

// RegisterSection adds a component overriding the element built for a markup
// section tag.
func (r *Registry) RegisterSection(name string, component ElementComponent) error {
	if component == nil {
		return fmt.Errorf("extensions: section %q component is nil", name)
	}
	return register(r, r.sections, KindSection, name, component)
}

// MustRegisterAtom mirrors RegisterAtom but panics on error.
func (r *Registry) MustRegisterAtom(name string, component AtomComponent) {
	must(r.RegisterAtom(name, component))
}

// MustRegisterCard mirrors RegisterCard but panics on error.
func (r *Registry) MustRegisterCard(name string, component CardComponent) {
	must(r.RegisterCard(name, component))
}

// MustRegisterMarkup mirrors RegisterMarkup but panics on error.
func (r *Registry) MustRegisterMarkup(name string, component ElementComponent) {
	must(r.RegisterMarkup(name, component))
}

// MustRegisterSection mirrors RegisterSection but panics on error.
func (r *Registry) MustRegisterSection(name string, component ElementComponent) {
	must(r.RegisterSection(name, component))
}

// Atom looks up an atom component.
func (r *Registry) Atom(name string) (AtomComponent, bool) {
	return lookup(r, func() map[string]AtomComponent { return r.atoms }, name)
}

// Card looks up a card component.
func (r *Registry) Card(name string) (CardComponent, bool) {
	return lookup(r, func() map[string]CardComponent { return r.cards }, name)
}

// Markup looks up a markup override.
func (r *Registry) Markup(name string) (ElementComponent, bool) {
	return lookup(r, func() map[string]ElementComponent { return r.markups }, name)
}

// Section looks up a section override.
func (r *Registry) Section(name string) (ElementComponent, bool) {
	return lookup(r, func() map[string]ElementComponent { return r.sections }, name)
}

// Names returns the sorted names registered for kind.
func (r *Registry) Names(kind Kind) []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	switch kind {
	case KindAtom:
		names = keys(r.atoms)
	case KindCard:
		names = keys(r.cards)
	case KindMarkup:
		names = keys(r.markups)
	case KindSection:
		names = keys(r.sections)
	}
	slices.Sort(names)
	return names
}

func register[T any](r *Registry, table map[string]T, kind Kind, name string, component T) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("extensions: %s name is required", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := table[name]; exists {
		return fmt.Errorf("extensions: %s %q already registered", kind, name)
	}
	table[name] = component
	return nil
}

func lookup[T any](r *Registry, table func() map[string]T, name string) (T, bool) {
	var zero T
	if r == nil || name == "" {
		return zero, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	component, ok := table()[name]
	return component, ok
}

func keys[T any](table map[string]T) []string {
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	return out
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
