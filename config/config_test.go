package config

import (
	"os"
	"testing"

	"github.com/stitcherio/urlvisits/emitter"
)

func withEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestDefaultOptions(t *testing.T) {
	opts := Default()
	if opts.Workers != defaultWorkers {
		t.Fatalf("Workers = %d, want %d", opts.Workers, defaultWorkers)
	}
	if opts.OutputStrategy != emitter.Hybrid {
		t.Fatalf("OutputStrategy = %v, want Hybrid", opts.OutputStrategy)
	}
	if opts.ReadBufferHint != 0 {
		t.Fatalf("ReadBufferHint = %d, want 0 (unset)", opts.ReadBufferHint)
	}
}

func TestWorkersClamping(t *testing.T) {
	cases := []struct {
		env  string
		want int
	}{
		{"0", defaultWorkers},
		{"-3", defaultWorkers},
		{"4", 4},
		{"16", 16},
		{"17", 16},
		{"1000", 16},
	}
	for _, c := range cases {
		withEnv(t, "PARSER_WORKERS", c.env)
		opts, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if opts.Workers != c.want {
			t.Errorf("PARSER_WORKERS=%q => Workers = %d, want %d", c.env, opts.Workers, c.want)
		}
	}
}

func TestForceMulticoreExactlyOne(t *testing.T) {
	withEnv(t, "PARSER_FORCE_MULTICORE", "true")
	opts, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.ForceMulticore {
		t.Fatalf("ForceMulticore = true for \"true\", want false (only \"1\" counts)")
	}

	withEnv(t, "PARSER_FORCE_MULTICORE", "1")
	opts, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !opts.ForceMulticore {
		t.Fatalf("ForceMulticore = false for \"1\", want true")
	}
}

func TestReadChunkSizeStripsSeparatorsAndClamps(t *testing.T) {
	cases := []struct {
		env  string
		want int
	}{
		{"1_048_576", 1048576},
		{"1,048,576", 1048576},
		{"1024", minBufSize},       // below floor, clamps up
		{"999999999999", maxBufSize}, // above ceiling, clamps down
	}
	for _, c := range cases {
		withEnv(t, "PARSER_READ_CHUNK_SIZE", c.env)
		opts, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if opts.ReadChunkSize != c.want {
			t.Errorf("PARSER_READ_CHUNK_SIZE=%q => ReadChunkSize = %d, want %d", c.env, opts.ReadChunkSize, c.want)
		}
	}
}

func TestReadBufferHintZeroPreserved(t *testing.T) {
	withEnv(t, "PARSER_READ_BUFFER", "0")
	opts, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.ReadBufferHint != 0 {
		t.Fatalf("ReadBufferHint = %d, want 0", opts.ReadBufferHint)
	}

	withEnv(t, "PARSER_READ_BUFFER", "1024")
	opts, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.ReadBufferHint != minBufSize {
		t.Fatalf("ReadBufferHint = %d, want %d (clamped up)", opts.ReadBufferHint, minBufSize)
	}
}

func TestOutputStrategyParsing(t *testing.T) {
	cases := []struct {
		env  string
		want emitter.Strategy
	}{
		{"sort", emitter.Sort},
		{"scan", emitter.Scan},
		{"hybrid", emitter.Hybrid},
		{"bogus", emitter.Scan}, // unrecognized non-empty value behaves as scan
	}
	for _, c := range cases {
		withEnv(t, "PARSER_OUTPUT_STRATEGY", c.env)
		opts, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if opts.OutputStrategy != c.want {
			t.Errorf("PARSER_OUTPUT_STRATEGY=%q => strategy = %v, want %v", c.env, opts.OutputStrategy, c.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	f, err := os.CreateTemp("", "config_*.toml")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	_, err = f.WriteString(`
workers = 4
forceMulticore = true
readChunkSize = "2_097_152"
outputStrategy = "sort"
`)
	if err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()

	opts, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Workers != 4 {
		t.Errorf("Workers = %d, want 4", opts.Workers)
	}
	if !opts.ForceMulticore {
		t.Errorf("ForceMulticore = false, want true")
	}
	if opts.ReadChunkSize != 2097152 {
		t.Errorf("ReadChunkSize = %d, want 2097152", opts.ReadChunkSize)
	}
	if opts.OutputStrategy != emitter.Sort {
		t.Errorf("OutputStrategy = %v, want Sort", opts.OutputStrategy)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	f, err := os.CreateTemp("", "config_*.toml")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("workers = 4\n"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()

	withEnv(t, "PARSER_WORKERS", "2")
	opts, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Workers != 2 {
		t.Fatalf("Workers = %d, want 2 (env must override file)", opts.Workers)
	}
}
