package orchestrator

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-mobiledoc/pkg/renderers/page"
)

// ErrUnknownTheme is returned by ManifestSelector for names or variants it
// does not hold.
var ErrUnknownTheme = errors.New("unknown theme")

// WithThemeSelector resolves a theme for every request that names one, or
// that falls back to the WithTheme defaults. The resolved configuration is
// passed to renderers as RenderOptions.Theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithTheme sets the theme and variant used when a request names none.
func WithTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = strings.TrimSpace(name)
		o.defaultVariant = strings.TrimSpace(variant)
	}
}

// WithThemeFallbacks replaces the partials used when the selected theme does
// not provide its own. Defaults to page.Partials.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = maps.Clone(fallbacks)
	}
}

// ManifestSelector selects among a fixed set of manifests.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector indexes manifests by name. Later manifests replace
// earlier ones with the same name.
func NewManifestSelector(manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil || m.Name == "" {
			continue
		}
		s.manifests[m.Name] = m
	}
	return s
}

// Select returns the manifest called name. An empty variant selects the base
// manifest.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	m, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w variant %q of %q", ErrUnknownTheme, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// resolveTheme returns nil when no selector is configured or no theme is
// named by the request or the defaults.
func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	name := firstNonEmpty(req.ThemeName, o.defaultTheme)
	if name == "" {
		return nil, nil
	}
	variant := req.ThemeVariant
	if variant == "" && req.ThemeName == "" {
		variant = o.defaultVariant
	}

	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownTheme, name)
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig merges fallbacks, the manifest and the selected variant, in
// that order. Every token becomes a --name CSS variable.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	partials := maps.Clone(fallbacks)
	if partials == nil {
		partials = make(map[string]string)
	}
	tokens := make(map[string]string)
	files := make(map[string]string)
	var prefix string

	if m := selection.Manifest; m != nil {
		maps.Copy(partials, m.Templates)
		maps.Copy(tokens, m.Tokens)
		maps.Copy(files, m.Assets.Files)
		prefix = m.Assets.Prefix
		if v, ok := m.Variants[selection.Variant]; ok {
			maps.Copy(partials, v.Templates)
			maps.Copy(tokens, v.Tokens)
			maps.Copy(files, v.Assets.Files)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  vars,
		AssetURL: assetResolver(prefix, files),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func defaultThemeFallbacks() map[string]string {
	return page.Partials()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
