package config

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/goliatone/go-mobiledoc/pkg/extensions"
	"github.com/goliatone/go-mobiledoc/pkg/render/template"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

// Registry builds an extension registry from the declarative extensions.
// Templates are compiled against sample data up front so that syntax errors
// surface here instead of while rendering. A template that fails at render
// time is logged and renders nothing.
func (c *Config) Registry(engine template.TemplateRenderer, logger *zap.Logger) (*extensions.Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := extensions.New()
	var err error

	for _, entry := range c.Extensions.Markups {
		err = multierr.Append(err, registry.RegisterMarkup(entry.Name, elementComponent(entry, true)))
	}
	for _, entry := range c.Extensions.Sections {
		err = multierr.Append(err, registry.RegisterSection(entry.Name, elementComponent(entry, false)))
	}

	if len(c.Extensions.Atoms)+len(c.Extensions.Cards) > 0 && engine == nil {
		return nil, multierr.Append(err, fmt.Errorf("config: template engine is required for atom and card extensions"))
	}

	for _, entry := range c.Extensions.Atoms {
		if verr := checkTemplate(engine, "atom", entry); verr != nil {
			err = multierr.Append(err, verr)
			continue
		}
		err = multierr.Append(err, registry.RegisterAtom(entry.Name, atomComponent(engine, logger, entry)))
	}
	for _, entry := range c.Extensions.Cards {
		if verr := checkTemplate(engine, "card", entry); verr != nil {
			err = multierr.Append(err, verr)
			continue
		}
		err = multierr.Append(err, registry.RegisterCard(entry.Name, cardComponent(engine, logger, entry)))
	}

	if err != nil {
		return nil, err
	}
	return registry, nil
}

// elementComponent swaps the element tag. For markups the document
// attributes are kept and take precedence over configured ones.
func elementComponent(entry ElementExtension, keepProps bool) extensions.ElementComponent {
	return func(props extensions.ElementProps) *tree.Node {
		attrs := make(map[string]any, len(entry.Attrs)+len(props.Props))
		for k, v := range entry.Attrs {
			attrs[k] = v
		}
		if keepProps {
			for k, v := range props.Props {
				attrs[k] = v
			}
		}
		if len(attrs) == 0 {
			attrs = nil
		}
		node := tree.Element(entry.Tag, props.Key, attrs)
		node.Append(props.Children...)
		return node
	}
}

func atomComponent(engine template.TemplateRenderer, logger *zap.Logger, entry TemplateExtension) extensions.AtomComponent {
	return func(ctx extensions.AtomContext) *tree.Node {
		return renderTemplate(engine, logger, "atom", entry, ctx.Key, map[string]any{
			"name":    entry.Name,
			"key":     ctx.Key,
			"text":    ctx.Text,
			"payload": ctx.Payload,
		})
	}
}

func cardComponent(engine template.TemplateRenderer, logger *zap.Logger, entry TemplateExtension) extensions.CardComponent {
	return func(ctx extensions.CardContext) *tree.Node {
		return renderTemplate(engine, logger, "card", entry, ctx.Key, map[string]any{
			"name":    entry.Name,
			"key":     ctx.Key,
			"payload": ctx.Payload,
		})
	}
}

func renderTemplate(engine template.TemplateRenderer, logger *zap.Logger, kind string, entry TemplateExtension, key string, data map[string]any) *tree.Node {
	out, err := engine.RenderString(entry.Template, data)
	if err != nil {
		logger.Warn("Extension template failed",
			zap.String("kind", kind), zap.String("name", entry.Name), zap.String("key", key), zap.Error(err))
		return nil
	}
	node := tree.Raw(out)
	node.Key = key
	return node
}

func checkTemplate(engine template.TemplateRenderer, kind string, entry TemplateExtension) error {
	sample := map[string]any{
		"name":    entry.Name,
		"key":     entry.Name,
		"text":    "",
		"payload": map[string]any{},
	}
	if _, err := engine.RenderString(entry.Template, sample); err != nil {
		return fmt.Errorf("config: %s %q template: %w", kind, entry.Name, err)
	}
	return nil
}
