package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteGolden_SkipsWithoutUpdateFlag(t *testing.T) {
	t.Setenv("UPDATE_GOLDENS", "")
	path := filepath.Join(t.TempDir(), "golden.json")

	WriteGolden(t, path, map[string]any{"tag": "p"})

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no golden written, stat err %v", err)
	}
}

func TestWriteGolden_WritesIndentedJSON(t *testing.T) {
	t.Setenv("UPDATE_GOLDENS", "1")
	path := filepath.Join(t.TempDir(), "nested", "golden.json")

	WriteGolden(t, path, map[string]any{"tag": "p", "key": "0"})

	want := "{\n  \"key\": \"0\",\n  \"tag\": \"p\"\n}"
	if diff := CompareGolden(want, MustReadGoldenString(t, path)); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMaybeGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")

	t.Setenv("UPDATE_GOLDENS", "")
	if WriteMaybeGolden(t, path, []byte("<p>x</p>")) {
		t.Fatal("expected no write without UPDATE_GOLDENS")
	}

	t.Setenv("UPDATE_GOLDENS", "1")
	if !WriteMaybeGolden(t, path, []byte("<p>x</p>")) {
		t.Fatal("expected golden written")
	}
	if got := MustReadGoldenString(t, path); got != "<p>x</p>" {
		t.Fatalf("unexpected golden %q", got)
	}
}
