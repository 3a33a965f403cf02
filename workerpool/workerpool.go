// Package workerpool runs one SliceParser per byte range produced by the
// OffsetSplitter and collects their PartialAggregates in spawn order.
//
// Workers are goroutines, and results cross goroutine boundaries as
// ordinary owned values, with no serialization step.
package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stitcherio/urlvisits/aggregate"
	"github.com/stitcherio/urlvisits/catalog"
	"github.com/stitcherio/urlvisits/sliceparser"
)

// ErrWorkerSpawnFailed is returned when a worker goroutine fails to run to
// completion, the one fatal error kind in this pipeline. This happens when
// a worker panics.
var ErrWorkerSpawnFailed = errors.New("workerpool: worker failed to complete")

// Run parses each slice [cuts[i], cuts[i+1]) for i in 0..len(cuts)-2 on its
// own goroutine and returns the resulting PartialAggregates indexed by i,
// spawn order, which is also merge order.
func Run(path string, fileSize int64, cuts []int64, cat *catalog.Catalog, opts sliceparser.Options) ([]*aggregate.Aggregate, error) {
	if len(cuts) < 2 {
		return nil, nil
	}
	w := len(cuts) - 1

	results := make([]*aggregate.Aggregate, w)
	failed := make([]error, w)

	var wg sync.WaitGroup
	wg.Add(w)
	for i := 0; i < w; i++ {
		go func(i int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failed[i] = fmt.Errorf("%w: slice %d: %v", ErrWorkerSpawnFailed, i, r)
				}
			}()
			results[i] = sliceparser.Parse(path, cuts[i], cuts[i+1], fileSize, cat, opts)
		}(i)
	}
	wg.Wait()

	for _, err := range failed {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
