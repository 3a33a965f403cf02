// Package splitter partitions a file into W line-aligned byte ranges so that
// W independent parsers can each own a contiguous, non-overlapping slice
// without losing or double-counting any record.
package splitter

import (
	"bytes"
	"os"
)

// seekScanSize is the read size used while scanning forward for the next
// newline after a seek. Small, because a cut is expected within a few
// hundred bytes of its seek point for any reasonably-shaped log.
const seekScanSize = 64 * 1024

// Cuts computes W+1 byte offsets cuts[0..W] such that cuts[0] = 0,
// cuts[W] = size, and every complete record in [0, size) lies entirely
// within exactly one of the W slices [cuts[i], cuts[i+1]).
//
// If the file at path cannot be opened, Cuts falls back to a single slice
// [0, size], the same effective behavior as W=1.
func Cuts(path string, size int64, w int) []int64 {
	if w < 1 {
		w = 1
	}
	cuts := make([]int64, w+1)
	cuts[w] = size
	if w == 1 || size <= 0 {
		return cuts
	}

	f, err := os.Open(path)
	if err != nil {
		// Fall back to a single slice; every interior cut collapses onto
		// size so every worker beyond index 0 gets an empty range.
		for i := range cuts {
			cuts[i] = size
		}
		cuts[0] = 0
		return cuts
	}
	defer f.Close()

	step := size / int64(w)
	for i := 1; i < w; i++ {
		cuts[i] = nextRecordBoundary(f, int64(i)*step, size)
	}
	return cuts
}

// nextRecordBoundary seeks to pos and scans forward for the byte following
// the next newline, returning size if none is found before EOF, which
// yields an empty subsequent slice.
func nextRecordBoundary(f *os.File, pos, size int64) int64 {
	if pos >= size {
		return size
	}

	buf := make([]byte, seekScanSize)
	offset := pos
	for offset < size {
		n, err := f.ReadAt(buf, offset)
		if n > 0 {
			if idx := bytes.IndexByte(buf[:n], '\n'); idx >= 0 {
				return offset + int64(idx) + 1
			}
		}
		if err != nil || n == 0 {
			break
		}
		offset += int64(n)
	}
	return size
}
