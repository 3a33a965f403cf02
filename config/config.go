// Package config resolves pipeline options from environment variables and,
// optionally, a layered TOML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/stitcherio/urlvisits/emitter"
)

const (
	minBufSize = 64 * 1024
	maxBufSize = 64 * 1024 * 1024

	defaultWorkers  = 8
	maxWorkers      = 16
	parallelMinSize = 128 * 1024 * 1024
)

// Options holds every tunable the pipeline consults, resolved from defaults,
// an optional TOML file, and environment variables, in that layering order:
// each later source overrides the previous one.
type Options struct {
	Workers          int
	ForceMulticore   bool
	ReadChunkSize    int
	WriteBufferSize  int
	ReadBufferHint   int
	OutputStrategy   emitter.Strategy
	ParallelMinBytes int64
}

// fileOptions mirrors the subset of Options a TOML file may set, using
// pointers so an absent key doesn't overwrite a default or an env value
// layered in afterward.
type fileOptions struct {
	Workers         *int    `toml:"workers"`
	ForceMulticore  *bool   `toml:"forceMulticore"`
	ReadChunkSize   *string `toml:"readChunkSize"`
	WriteBufferSize *string `toml:"writeBufferSize"`
	ReadBufferHint  *string `toml:"readBuffer"`
	OutputStrategy  *string `toml:"outputStrategy"`
}

// Default returns the option set with no file or environment layered in.
func Default() Options {
	return Options{
		Workers:          defaultWorkers,
		ForceMulticore:   false,
		ReadChunkSize:    minBufSize,
		WriteBufferSize:  minBufSize,
		ReadBufferHint:   0,
		OutputStrategy:   emitter.Hybrid,
		ParallelMinBytes: parallelMinSize,
	}
}

// Load resolves Options by starting from Default, layering in configPath's
// TOML contents if configPath is non-empty, then layering in environment
// variables, which always take precedence.
func Load(configPath string) (Options, error) {
	opts := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return opts, fmt.Errorf("reading config file: %w", err)
		}
		var fo fileOptions
		if _, err := toml.Decode(string(data), &fo); err != nil {
			return opts, fmt.Errorf("parsing config file: %w", err)
		}
		applyFile(&opts, fo)
	}

	applyEnv(&opts)
	return opts, nil
}

func applyFile(opts *Options, fo fileOptions) {
	if fo.Workers != nil {
		opts.Workers = clampWorkers(*fo.Workers)
	}
	if fo.ForceMulticore != nil {
		opts.ForceMulticore = *fo.ForceMulticore
	}
	if fo.ReadChunkSize != nil {
		if n, ok := parseByteSize(*fo.ReadChunkSize); ok {
			opts.ReadChunkSize = clampBuf(n)
		}
	}
	if fo.WriteBufferSize != nil {
		if n, ok := parseByteSize(*fo.WriteBufferSize); ok {
			opts.WriteBufferSize = clampBuf(n)
		}
	}
	if fo.ReadBufferHint != nil {
		if n, ok := parseByteSize(*fo.ReadBufferHint); ok {
			opts.ReadBufferHint = clampReadBufferHint(n)
		}
	}
	if fo.OutputStrategy != nil {
		opts.OutputStrategy = parseStrategy(*fo.OutputStrategy)
	}
}

func applyEnv(opts *Options) {
	if v, ok := os.LookupEnv("PARSER_WORKERS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			opts.Workers = clampWorkers(n)
		}
	}
	if v, ok := os.LookupEnv("PARSER_FORCE_MULTICORE"); ok {
		opts.ForceMulticore = v == "1"
	}
	if v, ok := os.LookupEnv("PARSER_READ_CHUNK_SIZE"); ok {
		if n, ok := parseByteSize(v); ok {
			opts.ReadChunkSize = clampBuf(n)
		}
	}
	if v, ok := os.LookupEnv("PARSER_WRITE_BUFFER_SIZE"); ok {
		if n, ok := parseByteSize(v); ok {
			opts.WriteBufferSize = clampBuf(n)
		}
	}
	if v, ok := os.LookupEnv("PARSER_READ_BUFFER"); ok {
		if n, ok := parseByteSize(v); ok {
			opts.ReadBufferHint = clampReadBufferHint(n)
		}
	}
	if v, ok := os.LookupEnv("PARSER_OUTPUT_STRATEGY"); ok {
		opts.OutputStrategy = parseStrategy(v)
	}
}

// clampWorkers maps n <= 0 to the default and clamps n > maxWorkers down.
func clampWorkers(n int) int {
	if n <= 0 {
		return defaultWorkers
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}

// clampBuf clamps a parsed byte size to [minBufSize, maxBufSize].
func clampBuf(n int) int {
	if n < minBufSize {
		return minBufSize
	}
	if n > maxBufSize {
		return maxBufSize
	}
	return n
}

// clampReadBufferHint applies PARSER_READ_BUFFER's special rule: a parsed
// zero is preserved as "unset"; any other value clamps the same as clampBuf.
func clampReadBufferHint(n int) int {
	if n == 0 {
		return 0
	}
	return clampBuf(n)
}

// parseByteSize strips thousands separators (underscores and commas) before
// parsing.
func parseByteSize(raw string) (int, bool) {
	cleaned := strings.NewReplacer("_", "", ",", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseStrategy maps the recognized names and falls through any other
// non-empty value to Scan.
func parseStrategy(raw string) emitter.Strategy {
	switch raw {
	case "sort":
		return emitter.Sort
	case "hybrid":
		return emitter.Hybrid
	case "":
		return emitter.Hybrid
	default:
		return emitter.Scan
	}
}
