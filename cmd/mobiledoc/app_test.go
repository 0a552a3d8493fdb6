package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mobiledoc/internal/prompt"
)

type pickDriver struct {
	choice string
}

func (d pickDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return "Picked", nil
}

func (d pickDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d pickDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	for i, option := range cfg.Options {
		if option == d.choice {
			return i, nil
		}
	}
	return -1, nil
}

func run(t *testing.T, stdin string, driver prompt.Driver, args ...string) (string, string, error) {
	t.Helper()

	var stdout, logs bytes.Buffer
	e := &env{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		logW:   &logs,
		driver: driver,
	}
	err := newApp(e).Run(context.Background(), append([]string{appName}, args...))
	return stdout.String(), logs.String(), err
}

func TestRender_WithConfigExtensions(t *testing.T) {
	out, logs, err := run(t, "", nil, "--config", filepath.Join("testdata", "mobiledoc.yaml"), "render", filepath.Join("testdata", "note.json"))
	if err != nil {
		t.Fatalf("run: %v\n%s", err, logs)
	}
	want := `<p><strong>Hi </strong><em class="mention">@ada</em></p>`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs, "Document rendered") || !strings.Contains(logs, "DEBUG") {
		t.Fatalf("expected debug logs, got:\n%s", logs)
	}
}

func TestRender_StdinToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.json")
	doc := `{"version":"0.3.1","atoms":[],"cards":[],"markups":[],"sections":[[1,"h2",[[0,[],0,"x"]]]]}`

	out, logs, err := run(t, doc, nil, "render", "--renderer", "json", "--output", dest, "-")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, logs)
	}
	if out != "" {
		t.Fatalf("expected nothing on stdout, got %q", out)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := `{"sections":[{"type":"element","tag":"h2","key":"0","children":[{"type":"text","text":"x"}]}]}`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Interactive(t *testing.T) {
	out, logs, err := run(t, "", pickDriver{choice: "page"}, "render", "-i", filepath.Join("testdata", "note.json"))
	if err != nil {
		t.Fatalf("run: %v\n%s", err, logs)
	}
	if !strings.Contains(out, "<title>Picked</title>") || !strings.Contains(out, `<article class="mobiledoc">`) {
		t.Fatalf("unexpected page:\n%s", out)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, _, err := run(t, "", nil, "render"); err == nil {
		t.Fatal("expected missing source error")
	}
	if _, _, err := run(t, "", nil, "render", filepath.Join("testdata", "missing.json")); err == nil {
		t.Fatal("expected load error")
	}
	if _, _, err := run(t, "", nil, "--config", filepath.Join("testdata", "missing.yaml"), "renderers"); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestRenderers(t *testing.T) {
	out, _, err := run(t, "", nil, "renderers")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff("* html\n  json\n  page\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpConfig_Default(t *testing.T) {
	out, _, err := run(t, "", nil, "dumpconfig", "--default")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, fragment := range []string{"renderer: html", "atom_keys: length", "sanitize: true", "level: normal"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("missing %q in:\n%s", fragment, out)
		}
	}
}

func TestRender_Theme(t *testing.T) {
	out, logs, err := run(t, "", nil, "render", "--renderer", "page", "--title", "Note", "--theme", "article", "--variant", "dark", filepath.Join("testdata", "note.json"))
	if err != nil {
		t.Fatalf("run: %v\n%s", err, logs)
	}
	for _, fragment := range []string{
		`<link rel="stylesheet" href="/assets/mobiledoc/article.dark.css">`,
		`<body data-theme="article" data-variant="dark">`,
		`<header class="mobiledoc-header"><h1>Note</h1></header>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("missing %q in:\n%s", fragment, out)
		}
	}

	if _, _, err := run(t, "", nil, "render", "--renderer", "page", "--theme", "brutalist", filepath.Join("testdata", "note.json")); err == nil || !strings.Contains(err.Error(), "unknown theme") {
		t.Fatalf("expected unknown theme error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	if got := buildVersion(); got == "" {
		t.Fatal("expected a version")
	}

	version = "v1.2.3"
	t.Cleanup(func() { version = "" })

	out, _, err := run(t, "", nil, "--version")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "v1.2.3") {
		t.Fatalf("expected build version in %q", out)
	}
}
