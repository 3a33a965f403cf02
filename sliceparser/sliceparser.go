// Package sliceparser implements the hot loop: given a byte range of the
// input file, read it in bounded chunks and produce a PartialAggregate.
// Field offsets are fixed by the record shape, so this avoids
// per-character scanning in favor of direct slicing: offset arithmetic, a
// single bounds check, no regex.
package sliceparser

import (
	"bytes"
	"io"
	"os"

	"github.com/stitcherio/urlvisits/aggregate"
	"github.com/stitcherio/urlvisits/catalog"
	"github.com/stitcherio/urlvisits/pools"
)

const (
	// MinChunk and MaxChunk bound the read-chunk size.
	MinChunk = 64 * 1024
	MaxChunk = 64 * 1024 * 1024

	prefixLen  = len(catalog.Prefix) // 19
	tsLen      = 25
	dayLen     = 10
	minLineLen = prefixLen + 1 + tsLen // 45: PREFIX + ',' + TIMESTAMP
)

// Options carries the tunables exposed as environment options.
type Options struct {
	// ReadChunkSize is the number of bytes read per chunk.
	ReadChunkSize int
	// ReadBufferHint is an advisory buffer-size hint. When it exceeds the
	// clamped ReadChunkSize, the pooled read buffer is requested with this
	// capacity instead; reads still take ReadChunkSize bytes at a time. It is
	// not clamped here.
	ReadBufferHint int
}

func clampChunk(n int) int {
	if n < MinChunk {
		return MinChunk
	}
	if n > MaxChunk {
		return MaxChunk
	}
	return n
}

// Parse reads the byte range [start, end) of the file at path and returns
// the resulting PartialAggregate.
//
// fileSize is the full size of path; it is used only to decide whether this
// slice's end coincides with true EOF, which controls whether a trailing
// unterminated line is processed.
func Parse(path string, start, end, fileSize int64, cat *catalog.Catalog, opts Options) *aggregate.Aggregate {
	agg := aggregate.New(cat.P())
	if end <= start {
		return agg
	}

	f, err := os.Open(path)
	if err != nil {
		// Open failure: absorbed, empty aggregate.
		return agg
	}
	defer f.Close()

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return agg
	}

	chunkSize := clampChunk(opts.ReadChunkSize)
	total := end - start

	initialCap := chunkSize
	if opts.ReadBufferHint > initialCap {
		initialCap = opts.ReadBufferHint
	}
	readBuf := pools.GetChunk(initialCap)
	defer pools.PutChunk(readBuf)

	var carry []byte
	var read int64
	for read < total {
		want := int64(chunkSize)
		if remaining := total - read; remaining < want {
			want = remaining
		}
		if int64(cap(readBuf)) < want {
			readBuf = make([]byte, want)
		}
		readBuf = readBuf[:want]

		n, rerr := io.ReadFull(f, readBuf)
		if n > 0 {
			read += int64(n)
			carry = consumeChunk(readBuf[:n], carry, agg, cat)
		}
		if rerr != nil {
			// Mid-stream read error: terminate parsing, return what was
			// accumulated.
			break
		}
	}

	// carry is only processed as a final line when this slice's end is the
	// file's true EOF. OffsetSplitter's cuts always land on a newline
	// boundary for interior slices, so in practice carry is non-empty here
	// only for the last slice of the file; this still preserves the
	// "process carry" branch for that case.
	if len(carry) > 0 && end >= fileSize {
		handleLine(carry, agg, cat)
	}

	return agg
}

// consumeChunk prepends carry to chunk, processes every complete line it
// finds, and returns the new carry (the incomplete tail).
func consumeChunk(chunk, carry []byte, agg *aggregate.Aggregate, cat *catalog.Catalog) []byte {
	var buf []byte
	if len(carry) == 0 {
		buf = chunk
	} else {
		buf = make([]byte, 0, len(carry)+len(chunk))
		buf = append(buf, carry...)
		buf = append(buf, chunk...)
	}

	lastNl := bytes.LastIndexByte(buf, '\n')
	if lastNl < 0 {
		return append([]byte(nil), buf...)
	}

	processLines(buf[:lastNl], agg, cat)
	return append([]byte(nil), buf[lastNl+1:]...)
}

// processLines splits buf on '\n' and handles each resulting line.
func processLines(buf []byte, agg *aggregate.Aggregate, cat *catalog.Catalog) {
	start := 0
	for i := 0; i <= len(buf); i++ {
		if i == len(buf) || buf[i] == '\n' {
			if i > start {
				handleLine(buf[start:i], agg, cat)
			} else if i == start {
				// empty line between two newlines: always skipped (len 0 < 45)
			}
			start = i + 1
		}
	}
}

// handleLine extracts the path and day from one already-newline-stripped
// record and adds it to agg.
func handleLine(line []byte, agg *aggregate.Aggregate, cat *catalog.Catalog) {
	n := len(line)
	if n < minLineLen {
		return
	}
	pathLen := n - minLineLen
	if pathLen <= 0 {
		return
	}

	path := line[prefixLen : prefixLen+pathLen]
	pid, ok := cat.IDByPath[string(path)]
	if !ok {
		return
	}

	day := line[n-tsLen : n-tsLen+dayLen]
	did := agg.DayID(string(day))
	agg.Add(pid, did)
}
