package prompt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDeclined is returned when the user refuses to overwrite the output.
var ErrDeclined = errors.New("prompt: overwrite declined")

// Settings are the render choices the CLI can ask about.
type Settings struct {
	Renderer string
	Title    string
	Output   string
}

// Flow asks for render settings, starting from the values given on the
// command line.
type Flow struct {
	Driver Driver
	// Renderers are the choices offered, in display order.
	Renderers []string
	// Exists reports whether the output path is already present. Nil skips
	// the overwrite question.
	Exists func(path string) bool
	// TitledRenderers lists the renderers that use a page title.
	TitledRenderers []string
}

// Ask runs the questions and returns the updated settings.
func (f Flow) Ask(ctx context.Context, in Settings) (Settings, error) {
	if f.Driver == nil {
		return in, errors.New("prompt: driver is required")
	}
	if len(f.Renderers) == 0 {
		return in, errors.New("prompt: no renderers to choose from")
	}
	out := in

	idx, err := f.Driver.Select(ctx, SelectConfig{
		Message:      "Renderer",
		Options:      f.Renderers,
		DefaultIndex: max(slices.Index(f.Renderers, in.Renderer), 0),
		Help:         "Output format for the document",
	})
	if err != nil {
		return in, err
	}
	if idx < 0 || idx >= len(f.Renderers) {
		return in, fmt.Errorf("prompt: renderer selection %d out of range", idx)
	}
	out.Renderer = f.Renderers[idx]

	if slices.Contains(f.TitledRenderers, out.Renderer) {
		title, err := f.Driver.Input(ctx, InputConfig{
			Message: "Page title",
			Default: in.Title,
			Validator: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("title must not be blank")
				}
				return nil
			},
		})
		if err != nil {
			return in, err
		}
		out.Title = strings.TrimSpace(title)
	}

	if out.Output != "" && f.Exists != nil && f.Exists(out.Output) {
		ok, err := f.Driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Overwrite %s?", out.Output),
		})
		if err != nil {
			return in, err
		}
		if !ok {
			return in, ErrDeclined
		}
	}
	return out, nil
}
