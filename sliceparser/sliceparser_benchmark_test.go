package sliceparser

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stitcherio/urlvisits/catalog"
)

// BenchmarkParse measures the hot loop's throughput across chunk sizes.
func BenchmarkParse(b *testing.B) {
	const lines = 200000
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		day := "2026-01-24"
		if i%2 == 0 {
			day = "2026-01-25"
		}
		sb.WriteString("https://stitcher.io/a,")
		sb.WriteString(day)
		sb.WriteString("T01:16:58+00:00\n")
	}
	content := sb.String()

	f, err := os.CreateTemp("", "bench_*.log")
	if err != nil {
		b.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(content); err != nil {
		b.Fatalf("WriteString: %v", err)
	}
	f.Close()

	size := int64(len(content))
	cat := catalog.Build([]catalog.Entry{{ID: 0, URI: "https://stitcher.io/a"}})

	chunkSizes := []int{MinChunk, 1024 * 1024, 16 * 1024 * 1024}
	for _, cs := range chunkSizes {
		b.Run(formatBytes(cs), func(b *testing.B) {
			b.SetBytes(size)
			for i := 0; i < b.N; i++ {
				Parse(f.Name(), 0, size, size, cat, Options{ReadChunkSize: cs})
			}
		})
	}
}

func formatBytes(n int) string {
	if n >= 1024*1024 {
		return strconv.Itoa(n/(1024*1024)) + "MB"
	}
	return strconv.Itoa(n/1024) + "KB"
}
