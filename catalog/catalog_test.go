package catalog

import "testing"

func TestBuildDropsInvalidEntries(t *testing.T) {
	cat := Build([]Entry{
		{ID: 0, URI: "https://stitcher.io/a"},
		{ID: 1, URI: "not-a-known-prefix/a"},
		{ID: 2, URI: ""},
		{ID: 3, URI: Prefix}, // empty path after prefix, must be dropped
		{ID: 4, URI: "https://stitcher.io/b/c"},
	})

	if cat.P() != 2 {
		t.Fatalf("P() = %d, want 2", cat.P())
	}
	if id, ok := cat.IDByPath["/a"]; !ok || id != 0 {
		t.Fatalf("IDByPath[/a] = %d,%v want 0,true", id, ok)
	}
	if id, ok := cat.IDByPath["/b/c"]; !ok || id != 1 {
		t.Fatalf("IDByPath[/b/c] = %d,%v want 1,true", id, ok)
	}
}

func TestBuildEscapesSlashes(t *testing.T) {
	cat := Build([]Entry{{ID: 0, URI: "https://stitcher.io/a/b"}})

	if got, want := cat.EscapedByID[0], `\/a\/b`; got != want {
		t.Fatalf("EscapedByID[0] = %q, want %q", got, want)
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	cat := Build(nil)
	if cat.P() != 0 {
		t.Fatalf("P() = %d, want 0", cat.P())
	}
}
