// Package config loads the YAML configuration used by the CLI and by hosts
// that want declarative extensions: markup and section overrides that swap
// tags and add attributes, and atoms and cards rendered from pongo2
// templates.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
)

const (
	AtomKeysLength = "length"
	AtomKeysIndex  = "index"
)

type (
	// ElementExtension maps a markup or section tag to another element.
	ElementExtension struct {
		Name  string            `yaml:"name"`
		Tag   string            `yaml:"tag"`
		Attrs map[string]string `yaml:"attrs,omitempty"`
	}

	// TemplateExtension renders an atom or card from a pongo2 template. The
	// template sees name, key, text (atoms only) and payload.
	TemplateExtension struct {
		Name     string `yaml:"name"`
		Template string `yaml:"template"`
	}

	ExtensionsConfig struct {
		Markups  []ElementExtension  `yaml:"markups,omitempty"`
		Sections []ElementExtension  `yaml:"sections,omitempty"`
		Atoms    []TemplateExtension `yaml:"atoms,omitempty"`
		Cards    []TemplateExtension `yaml:"cards,omitempty"`
	}

	Config struct {
		Renderer        string            `yaml:"renderer"`
		Title           string            `yaml:"title,omitempty"`
		Lang            string            `yaml:"lang,omitempty"`
		Metadata        map[string]string `yaml:"metadata,omitempty"`
		Theme           string            `yaml:"theme,omitempty"`
		Variant         string            `yaml:"variant,omitempty"`
		AdditionalProps map[string]any    `yaml:"additional_props,omitempty"`
		AtomKeys        string            `yaml:"atom_keys"`
		Sanitize        bool              `yaml:"sanitize"`
		Logging         LoggingConfig     `yaml:"logging"`
		Extensions      ExtensionsConfig  `yaml:"extensions,omitempty"`
	}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Renderer: "html",
		AtomKeys: AtomKeysLength,
		Sanitize: true,
		Logging:  LoggingConfig{Level: LevelNormal},
	}
}

// Load reads and validates a configuration file. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Dump encodes cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate reports every problem found, combined with multierr.
func (c *Config) Validate() error {
	var err error

	if strings.TrimSpace(c.Renderer) == "" {
		err = multierr.Append(err, fmt.Errorf("config: renderer is required"))
	}
	switch c.AtomKeys {
	case AtomKeysLength, AtomKeysIndex:
	default:
		err = multierr.Append(err, fmt.Errorf("config: atom_keys must be %q or %q, got %q", AtomKeysLength, AtomKeysIndex, c.AtomKeys))
	}
	if strings.TrimSpace(c.Variant) != "" && strings.TrimSpace(c.Theme) == "" {
		err = multierr.Append(err, fmt.Errorf("config: variant %q requires a theme", c.Variant))
	}
	err = multierr.Append(err, c.Logging.Validate())

	err = multierr.Append(err, validateElements("markups", c.Extensions.Markups))
	err = multierr.Append(err, validateElements("sections", c.Extensions.Sections))
	err = multierr.Append(err, validateTemplates("atoms", c.Extensions.Atoms))
	err = multierr.Append(err, validateTemplates("cards", c.Extensions.Cards))
	return err
}

// AtomKeyMode converts AtomKeys to the builder option value.
func (c *Config) AtomKeyMode() builder.AtomKeyMode {
	if c.AtomKeys == AtomKeysIndex {
		return builder.AtomKeyByIndex
	}
	return builder.AtomKeyByLength
}

func validateElements(table string, entries []ElementExtension) error {
	var err error
	seen := make(map[string]struct{}, len(entries))
	for idx, entry := range entries {
		if entry.Name == "" {
			err = multierr.Append(err, fmt.Errorf("config: extensions.%s[%d]: name is required", table, idx))
		} else if _, dup := seen[entry.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("config: extensions.%s[%d]: duplicate name %q", table, idx, entry.Name))
		}
		seen[entry.Name] = struct{}{}
		if strings.TrimSpace(entry.Tag) == "" {
			err = multierr.Append(err, fmt.Errorf("config: extensions.%s[%d]: tag is required", table, idx))
		}
	}
	return err
}

func validateTemplates(table string, entries []TemplateExtension) error {
	var err error
	seen := make(map[string]struct{}, len(entries))
	for idx, entry := range entries {
		if entry.Name == "" {
			err = multierr.Append(err, fmt.Errorf("config: extensions.%s[%d]: name is required", table, idx))
		} else if _, dup := seen[entry.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("config: extensions.%s[%d]: duplicate name %q", table, idx, entry.Name))
		}
		seen[entry.Name] = struct{}{}
		if strings.TrimSpace(entry.Template) == "" {
			err = multierr.Append(err, fmt.Errorf("config: extensions.%s[%d]: template is required", table, idx))
		}
	}
	return err
}
