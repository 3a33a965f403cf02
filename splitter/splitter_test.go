package splitter

import (
	"os"
	"testing"
)

func writeTemp(t *testing.T, content string) (string, int64) {
	t.Helper()
	f, err := os.CreateTemp("", "splitter_*.log")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()
	return f.Name(), int64(len(content))
}

func TestCutsSingleWorkerCoversWholeFile(t *testing.T) {
	path, size := writeTemp(t, "a\nb\nc\n")
	cuts := Cuts(path, size, 1)
	if len(cuts) != 2 || cuts[0] != 0 || cuts[1] != size {
		t.Fatalf("cuts = %v, want [0 %d]", cuts, size)
	}
}

func TestCutsAreMonotonicAndCoverFile(t *testing.T) {
	content := ""
	for i := 0; i < 500; i++ {
		content += "https://stitcher.io/a,2026-01-24T01:16:58+00:00\n"
	}
	path, size := writeTemp(t, content)

	for w := 1; w <= 16; w++ {
		cuts := Cuts(path, size, w)
		if len(cuts) != w+1 {
			t.Fatalf("w=%d: len(cuts) = %d, want %d", w, len(cuts), w+1)
		}
		if cuts[0] != 0 {
			t.Fatalf("w=%d: cuts[0] = %d, want 0", w, cuts[0])
		}
		if cuts[w] != size {
			t.Fatalf("w=%d: cuts[%d] = %d, want %d", w, w, cuts[w], size)
		}
		for i := 1; i <= w; i++ {
			if cuts[i] < cuts[i-1] {
				t.Fatalf("w=%d: cuts not monotonic at %d: %v", w, i, cuts)
			}
		}
	}
}

func TestCutsLandOnRecordBoundaries(t *testing.T) {
	line := "https://stitcher.io/a,2026-01-24T01:16:58+00:00\n"
	content := ""
	for i := 0; i < 1000; i++ {
		content += line
	}
	path, size := writeTemp(t, content)

	for w := 2; w <= 16; w++ {
		cuts := Cuts(path, size, w)
		for _, c := range cuts {
			if c != size && c%int64(len(line)) != 0 {
				t.Fatalf("w=%d: cut %d does not land on a record boundary (line len %d)", w, c, len(line))
			}
		}
	}
}

func TestCutsMissingFileFallsBackToSingleSlice(t *testing.T) {
	cuts := Cuts("/nonexistent/path/for/splitter/test", 100, 4)
	if len(cuts) != 5 {
		t.Fatalf("len(cuts) = %d, want 5", len(cuts))
	}
	if cuts[0] != 0 || cuts[4] != 100 {
		t.Fatalf("cuts = %v, want [0 ... 100]", cuts)
	}
	for i := 1; i < 4; i++ {
		if cuts[i] != 100 {
			t.Fatalf("cuts[%d] = %d, want 100 (empty fallback slice)", i, cuts[i])
		}
	}
}

func TestCutsEmptyFile(t *testing.T) {
	path, size := writeTemp(t, "")
	cuts := Cuts(path, size, 8)
	for i, c := range cuts {
		if c != 0 {
			t.Fatalf("cuts[%d] = %d, want 0 for empty file", i, c)
		}
	}
}
