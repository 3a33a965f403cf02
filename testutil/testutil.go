// Package testutil generates temporary visit-log files for tests.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// samplePaths cycle through a handful of fictional stitcher.io paths.
var samplePaths = []string{
	"/blog/post-1",
	"/blog/post-2",
	"/docs/getting-started",
	"/about",
	"/",
}

// sampleDays cycle through a short run of consecutive days.
var sampleDays = []string{
	"2026-01-24",
	"2026-01-25",
	"2026-01-26",
}

// GenerateTestLogFile creates a temporary visit-log file with numLines
// records (at least 1000), cycling through a small set of known paths and
// days, one "PREFIX PATH , TIMESTAMP" record per line. Returns the file
// path and a cleanup function.
func GenerateTestLogFile(t *testing.T, numLines int) (string, func()) {
	t.Helper()

	if numLines < 1000 {
		numLines = 1000
	}

	tmpFile, err := os.CreateTemp("", "test_visits_*.log")
	if err != nil {
		t.Fatalf("Failed to create temp log file: %v", err)
	}

	var content strings.Builder
	for i := 0; i < numLines; i++ {
		path := samplePaths[i%len(samplePaths)]
		day := sampleDays[i%len(sampleDays)]
		fmt.Fprintf(&content, "https://stitcher.io%s,%sT%02d:%02d:%02d+00:00\n",
			path, day, i%24, (i*7)%60, (i*13)%60)
	}

	if _, err := tmpFile.WriteString(content.String()); err != nil {
		t.Fatalf("Failed to write to temp log file: %v", err)
	}
	tmpFile.Close()

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}
	return tmpFile.Name(), cleanup
}

// KnownPaths returns the full catalog URIs (Prefix plus path) of the paths
// GenerateTestLogFile cycles through, in the same order.
func KnownPaths() []string {
	out := make([]string, len(samplePaths))
	for i, p := range samplePaths {
		out[i] = "https://stitcher.io" + p
	}
	return out
}

// TempFilePath returns a cross-platform temporary file path with the given
// pattern. Does not create the file.
func TempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path)

	return path
}

// TempDirPath returns a cross-platform temporary directory path.
func TempDirPath(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}
