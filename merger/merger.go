// Package merger folds an ordered list of PartialAggregates into one
// GlobalAggregate. The fold order is fixed by the caller (workerpool's
// spawn order) and determines both the emitted path order and the global
// day id assignment.
package merger

import "github.com/stitcherio/urlvisits/aggregate"

// Merge combines partials, in the given order, into a single aggregate
// sized for p distinct paths. Every partial is folded in a fixed,
// caller-determined order rather than raced or sorted afterward.
func Merge(p int, partials []*aggregate.Aggregate) *aggregate.Aggregate {
	global := aggregate.New(p)

	for _, partial := range partials {
		if partial == nil {
			continue
		}

		remap := make([]int, len(partial.Days))
		for localID, key := range partial.Days {
			remap[localID] = global.DayID(key)
		}

		for _, pid := range partial.Order {
			global.MarkSeen(pid)
			for localID, count := range partial.Matrix[pid] {
				globalID := remap[localID]
				row := global.Matrix[pid]
				if row == nil {
					row = make(map[int]int64, 1)
					global.Matrix[pid] = row
				}
				row[globalID] += count
			}
		}
	}

	return global
}
