// Package emitter writes a GlobalAggregate out as a fixed JSON object, using
// a buffered writer sized by the configured write-buffer hint. Paths are
// written in first-seen order; each path's days are ordered by whichever of
// a sort or a scan over the full day list is cheaper for that row.
package emitter

import (
	"bufio"
	"io"
	"sort"
	"strconv"

	"github.com/stitcherio/urlvisits/aggregate"
	"github.com/stitcherio/urlvisits/catalog"
)

// Strategy selects how a path's days are ordered in the emitted object.
type Strategy int

const (
	// Hybrid picks Sort or Scan per path, whichever costs less for that
	// row's day count against the day list's total size.
	Hybrid Strategy = iota
	Sort
	Scan
)

// Write emits agg as a single JSON object to w, using cat to resolve
// PathIds to their escaped path strings. bufSize is the OS write-buffer
// hint; a non-positive value falls back to bufio's default.
func Write(w io.Writer, agg *aggregate.Aggregate, cat *catalog.Catalog, strategy Strategy, bufSize int) error {
	bw := newBufWriter(w, bufSize)

	sortedDays := make([]int, len(agg.Days))
	for i := range sortedDays {
		sortedDays[i] = i
	}
	sort.Slice(sortedDays, func(i, j int) bool {
		return agg.Days[sortedDays[i]] < agg.Days[sortedDays[j]]
	})
	bw.WriteByte('{')

	first := true
	for _, pid := range agg.Order {
		if pid < 0 || pid >= cat.P() {
			continue
		}
		row := agg.Matrix[pid]
		if len(row) == 0 {
			continue
		}

		if first {
			bw.WriteByte('\n')
			first = false
		} else {
			bw.WriteString(",\n")
		}
		bw.WriteString(`    "`)
		bw.WriteString(cat.EscapedByID[pid])
		bw.WriteString(`": {`)

		writeDays(bw, row, agg.Days, sortedDays, strategy)

		bw.WriteByte('}')
	}

	// An empty body still gets the surrounding newline when the catalog is
	// non-empty; a catalog of zero known paths collapses straight to "{}".
	if !first || cat.P() > 0 {
		bw.WriteByte('\n')
	}
	bw.WriteByte('}')

	return bw.Flush()
}

func writeDays(bw *bufio.Writer, row map[int]int64, days []string, sortedDays []int, strategy Strategy) {
	r := len(row)
	d := len(days)
	useSort := strategy == Sort || (strategy == Hybrid && 2*r < d)

	firstDay := true
	emit := func(dayID int, count int64) {
		if firstDay {
			bw.WriteByte('\n')
			firstDay = false
		} else {
			bw.WriteString(",\n")
		}
		bw.WriteString(`        "`)
		bw.WriteString(days[dayID])
		bw.WriteString(`": `)
		bw.WriteString(strconv.FormatInt(count, 10))
	}

	if useSort {
		ids := make([]int, 0, r)
		for dayID := range row {
			ids = append(ids, dayID)
		}
		sort.Slice(ids, func(i, j int) bool { return days[ids[i]] < days[ids[j]] })
		for _, dayID := range ids {
			emit(dayID, row[dayID])
		}
	} else {
		for _, dayID := range sortedDays {
			if count, ok := row[dayID]; ok {
				emit(dayID, count)
			}
		}
	}

	if !firstDay {
		bw.WriteString("\n    ")
	}
}

func newBufWriter(w io.Writer, bufSize int) *bufio.Writer {
	if bufSize > 0 {
		return bufio.NewWriterSize(w, bufSize)
	}
	return bufio.NewWriter(w)
}
