// Package aggregate holds the shape shared by per-slice partial results and
// the merged global result: a discovery-ordered path list, a discovery-ordered
// day table, and a sparse path×day count matrix.
package aggregate

// Aggregate is a PartialAggregate when produced by a single SliceParser, and
// a GlobalAggregate once folded by the SliceMerger. The shape is identical;
// only the scope of the day ids (local to one slice vs. shared across all
// slices) differs.
type Aggregate struct {
	// Order lists PathIds in first-seen order. Each id appears at most once.
	Order []int

	// Days lists DayKeys in first-seen order; the index is the DayId.
	Days []string

	// Matrix[pid] maps a DayId to the number of records seen for that path
	// on that day. A nil entry means the path has no rows.
	Matrix []map[int]int64

	seen   map[int]bool
	dayIdx map[string]int
}

// New returns an empty Aggregate sized for P distinct paths.
func New(p int) *Aggregate {
	return &Aggregate{
		Matrix: make([]map[int]int64, p),
		seen:   make(map[int]bool),
		dayIdx: make(map[string]int),
	}
}

// DayID returns the DayId for key, assigning the next id in first-seen order
// if key has not been seen in this aggregate before.
func (a *Aggregate) DayID(key string) int {
	if id, ok := a.dayIdx[key]; ok {
		return id
	}
	id := len(a.Days)
	a.Days = append(a.Days, key)
	a.dayIdx[key] = id
	return id
}

// Add records one observation of pid on the day identified by dayID,
// recording pid in Order the first time it is seen.
func (a *Aggregate) Add(pid, dayID int) {
	if !a.seen[pid] {
		a.seen[pid] = true
		a.Order = append(a.Order, pid)
	}
	row := a.Matrix[pid]
	if row == nil {
		row = make(map[int]int64, 1)
		a.Matrix[pid] = row
	}
	row[dayID]++
}

// MarkSeen records pid in Order in first-seen order, without touching its
// row. Used by the merger, which writes summed counts directly into Matrix
// rather than through Add.
func (a *Aggregate) MarkSeen(pid int) {
	if !a.seen[pid] {
		a.seen[pid] = true
		a.Order = append(a.Order, pid)
	}
}

// Rows reports, for path pid, the number of distinct days with a non-zero
// count (R) and the total number of distinct days known to the aggregate (D):
// the two quantities the emitter's hybrid strategy compares, which the
// emitter computes from the row and day list directly.
func (a *Aggregate) Rows(pid int) (r, d int) {
	return len(a.Matrix[pid]), len(a.Days)
}

// TotalForPath sums every day's count for pid.
func (a *Aggregate) TotalForPath(pid int) int64 {
	var total int64
	for _, c := range a.Matrix[pid] {
		total += c
	}
	return total
}
