package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() *Node {
	root := Element("p", "0", nil)
	strong := Element("strong", "0-0-0", nil)
	strong.Append(Text("bold"), nil)
	root.Append(Text("a "), strong, Raw("<i>raw</i>"), Text(" z"))
	return root
}

func TestText_Content(t *testing.T) {
	if got := sample().TextContent(); got != "a bold z" {
		t.Fatalf("text content: got %q", got)
	}
}

func TestAppend_SkipsNil(t *testing.T) {
	root := sample()
	if len(root.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(root.Children))
	}
	if len(root.Children[1].Children) != 1 {
		t.Fatalf("nil child should be skipped, got %d children", len(root.Children[1].Children))
	}
}

func TestWalk_PreOrder(t *testing.T) {
	var kinds []string
	Walk(sample(), func(node *Node, depth int) bool {
		kinds = append(kinds, node.Kind.String()+":"+node.Tag+node.Text)
		return true
	})
	want := []string{"element:p", "text:a ", "element:strong", "text:bold", "raw:<i>raw</i>", "text: z"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	count := 0
	Walk(sample(), func(node *Node, depth int) bool {
		count++
		return node.Tag != "strong"
	})
	if count != 5 {
		t.Fatalf("expected 5 visits, got %d", count)
	}
}

func TestDepth(t *testing.T) {
	if got := Depth(sample()); got != 2 {
		t.Fatalf("depth: got %d", got)
	}
	if got := Depth(Text("x")); got != 0 {
		t.Fatalf("leaf depth: got %d", got)
	}
}
