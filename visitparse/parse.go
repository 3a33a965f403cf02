// Package visitparse wires catalog, splitter, workerpool, merger, and
// emitter into the pipeline's public entry points: validate input, parse,
// fan out and fan in across workers, emit, return.
package visitparse

import (
	"fmt"
	"os"

	"github.com/stitcherio/urlvisits/aggregate"
	"github.com/stitcherio/urlvisits/catalog"
	"github.com/stitcherio/urlvisits/config"
	"github.com/stitcherio/urlvisits/emitter"
	"github.com/stitcherio/urlvisits/merger"
	"github.com/stitcherio/urlvisits/sliceparser"
	"github.com/stitcherio/urlvisits/splitter"
	"github.com/stitcherio/urlvisits/workerpool"
)

// Parse reads inputPath, aggregates visit counts per known path and day
// using cat, and writes the result as JSON to outputPath, per opts.
//
// An input file that cannot be opened or sized is not fatal: the pipeline
// behaves as though the input had size 0. An output file that cannot be
// created returns an error to the caller but is not otherwise treated as a
// pipeline failure; the caller decides how loudly to report it.
func Parse(inputPath, outputPath string, cat *catalog.Catalog, opts config.Options) error {
	if cat.P() == 0 {
		if err := os.WriteFile(outputPath, []byte("{}"), 0o644); err != nil {
			return fmt.Errorf("visitparse: output unavailable: %w", err)
		}
		return nil
	}

	agg, err := parseInput(inputPath, cat, opts)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("visitparse: output unavailable: %w", err)
	}
	defer out.Close()

	if err := emitter.Write(out, agg, cat, opts.OutputStrategy, opts.WriteBufferSize); err != nil {
		return fmt.Errorf("visitparse: writing output: %w", err)
	}
	return nil
}

// Aggregate runs the same catalog->splitter->workerpool->merger pipeline as
// Parse but returns the merged aggregate directly instead of emitting JSON,
// for callers that need the in-memory result (the heatmap and watch CLI
// commands).
func Aggregate(inputPath string, cat *catalog.Catalog, opts config.Options) (*aggregate.Aggregate, error) {
	if cat.P() == 0 {
		return aggregate.New(0), nil
	}
	return parseInput(inputPath, cat, opts)
}

func parseInput(inputPath string, cat *catalog.Catalog, opts config.Options) (*aggregate.Aggregate, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		// Treat an unopenable input as a zero-byte input rather than
		// failing the run.
		return aggregate.New(cat.P()), nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return aggregate.New(cat.P()), nil
	}
	size := info.Size()
	if size == 0 {
		return aggregate.New(cat.P()), nil
	}

	w := workerCount(size, opts)
	parserOpts := sliceparser.Options{
		ReadChunkSize:  opts.ReadChunkSize,
		ReadBufferHint: opts.ReadBufferHint,
	}

	cuts := splitter.Cuts(inputPath, size, w)
	partials, err := workerpool.Run(inputPath, size, cuts, cat, parserOpts)
	if err != nil {
		return nil, fmt.Errorf("visitparse: %w", err)
	}

	return merger.Merge(cat.P(), partials), nil
}

// workerCount applies the small-file single-worker fallback: below
// ParallelMinBytes, run single-threaded unless ForceMulticore is set.
func workerCount(size int64, opts config.Options) int {
	if !opts.ForceMulticore && size < opts.ParallelMinBytes {
		return 1
	}
	if opts.Workers < 1 {
		return 1
	}
	return opts.Workers
}
