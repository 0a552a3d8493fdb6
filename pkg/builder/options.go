package builder

// AtomKeyMode selects how atom identity keys are derived.
type AtomKeyMode int

const (
	// AtomKeyByLength keys atoms as "<name>-<text length>", the scheme other
	// mobiledoc renderers use. Two atoms with the same name and text length
	// share a key.
	AtomKeyByLength AtomKeyMode = iota
	// AtomKeyByIndex keys atoms as "atom-<index>" using their position in the
	// atoms table.
	AtomKeyByIndex
)

// Option customises a Builder.
type Option func(*Builder)

// WithAdditionalProps sets properties merged into every atom and card
// payload and passed to every section override. They win over payload keys.
func WithAdditionalProps(props map[string]any) Option {
	return func(b *Builder) {
		b.props = cloneProps(props)
	}
}

// WithAtomKeys selects the atom key scheme.
func WithAtomKeys(mode AtomKeyMode) Option {
	return func(b *Builder) {
		b.atomKeys = mode
	}
}

func cloneProps(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

// mergePayload copies payload and overlays extra on top of it.
func mergePayload(payload, extra map[string]any) map[string]any {
	out := make(map[string]any, len(payload)+len(extra))
	for key, value := range payload {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}
