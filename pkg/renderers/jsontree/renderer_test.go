package jsontree

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/render"
	"github.com/goliatone/go-mobiledoc/pkg/tree"
)

func TestRender_Compact(t *testing.T) {
	doc, err := model.Decode([]byte(`{"markups":[["a",["href","/x"]]],"sections":[[1,"p",[[0,[0],1,"hi"]]],[2,"cat.png"]]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	result, err := builder.New(nil).Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	out, err := New().Render(context.Background(), result, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{"sections":[{"type":"element","tag":"p","key":"0","children":[` +
		`{"type":"element","tag":"a","key":"0-0-0","props":{"href":"/x"},"children":[{"type":"text","text":"hi"}]}]}],` +
		`"omitted":[{"index":1,"type":2,"reason":"unsupported section type"}]}`
	if string(out) != want {
		t.Fatalf("unexpected json\nwant: %s\n got: %s", want, out)
	}
}

func TestConvert_DropsFunctionProps(t *testing.T) {
	node := tree.Element("button", "0", map[string]any{"onClick": func() {}, "type": "button"})
	node.Append(tree.Raw("<b>x</b>"), nil)

	got := Convert(builder.Result{Sections: []*tree.Node{node, nil}})

	want := Payload{Sections: []Node{{
		Type:     "element",
		Tag:      "button",
		Key:      "0",
		Props:    map[string]any{"type": "button"},
		Children: []Node{{Type: "raw", Text: "<b>x</b>"}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Indent(t *testing.T) {
	out, err := New(WithIndent("  ")).Render(context.Background(), builder.Result{}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "\n  \"sections\": []") {
		t.Fatalf("expected indented output, got %s", out)
	}
}
