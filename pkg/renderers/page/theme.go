package page

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Partial and asset keys a theme may resolve for the page layout.
const (
	PartialHeader   = "page.header"
	PartialFooter   = "page.footer"
	AssetStylesheet = "page.stylesheet"

	// DefaultTheme and DefaultVariant name the built-in manifest.
	DefaultTheme   = "article"
	DefaultVariant = "light"
)

// Partials returns the partial templates used when a theme does not override
// them.
func Partials() map[string]string {
	return map[string]string{
		PartialHeader: "templates/partials/header.tpl",
		PartialFooter: "templates/partials/footer.tpl",
	}
}

// Themes returns the built-in theme manifests.
func Themes() []*theme.Manifest {
	return []*theme.Manifest{{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"text":       "#1f2328",
			"background": "#ffffff",
			"accent":     "#0969da",
			"measure":    "42rem",
		},
		Assets: theme.Assets{
			Prefix: "/assets/mobiledoc",
			Files: map[string]string{
				AssetStylesheet: "article.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"text":       "#e6edf3",
					"background": "#0d1117",
					"accent":     "#4493f8",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						AssetStylesheet: "article.dark.css",
					},
				},
			},
		},
	}}
}

// themeContext flattens cfg into the values page.tpl reads. Partials are
// rendered with the page data so they can use title and lang.
func (r *Renderer) themeContext(cfg *theme.RendererConfig, data map[string]any) (map[string]any, error) {
	if cfg == nil {
		return nil, nil
	}
	ctx := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"tokens":  maps.Clone(cfg.Tokens),
		"style":   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet"] = cfg.AssetURL(AssetStylesheet)
	}

	scope := maps.Clone(data)
	scope["theme"] = ctx
	for key, slot := range map[string]string{PartialHeader: "header", PartialFooter: "footer"} {
		path := strings.TrimSpace(cfg.Partials[key])
		if path == "" {
			continue
		}
		out, err := r.templates.RenderTemplate(path, scope)
		if err != nil {
			return nil, fmt.Errorf("partial %s: %w", key, err)
		}
		ctx[slot] = strings.TrimRight(out, "\n")
	}
	return ctx, nil
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
