package mobiledoc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	mobiledoc "github.com/goliatone/go-mobiledoc"
	"github.com/goliatone/go-mobiledoc/pkg/extensions"
	"github.com/goliatone/go-mobiledoc/pkg/testsupport"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

const linkDoc = `{"version":"0.3.1","atoms":[],"cards":[],"markups":[["a",["href","https://example.com"]]],"sections":[[3,"ul",[[[0,[0],1,"one"]],[[0,[],0,"two"]]]]]}`

func TestRenderHTML(t *testing.T) {
	output, err := mobiledoc.RenderHTML(testsupport.Context(), []byte(linkDoc), mobiledoc.NewRegistry())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<ul><li><a href="https://example.com">one</a></li><li>two</li></ul>`
	if diff := cmp.Diff(want, string(output.Body)); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SectionOverride(t *testing.T) {
	registry := mobiledoc.NewRegistry()
	registry.MustRegisterSection("aside", func(props extensions.ElementProps) *tree.Node {
		node := tree.Element("div", props.Key, props.Props)
		node.Append(props.Children...)
		return node
	})

	result, err := mobiledoc.Build([]byte(`{"version":"0.3.1","atoms":[],"cards":[],"markups":[],"sections":[[1,"aside",[[0,[],0,"x"]]]]}`), registry, map[string]any{"start": 3})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(result.Sections) != 1 || result.Sections[0].Tag != "div" {
		t.Fatalf("unexpected sections %+v", result.Sections)
	}
	if diff := cmp.Diff(map[string]any{"start": 3}, result.Sections[0].Props); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"version":"0.3.1","atoms":[],"cards":[],"markups":[],"sections":[]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	output, err := mobiledoc.RenderFile(testsupport.Context(), path, "json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(`{"sections":[]}`, string(output.Body)); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Version(t *testing.T) {
	doc, err := mobiledoc.Decode([]byte(linkDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Version != mobiledoc.Version {
		t.Fatalf("unexpected version %q", doc.Version)
	}
}
