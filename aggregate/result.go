package aggregate

import (
	"brc/report"
	"brc/stats"
)

// Result is the finalized, read-only outcome of a run.
type Result struct {
	table      *stats.Table
	lines      uint64
	partitions int
}

func (r *Result) Keys() []string {
	return r.table.Keys()
}

func (r *Result) Get(key string) (stats.Entry, bool) {
	return r.table.Get(key)
}

func (r *Result) Len() int {
	return r.table.Len()
}

// Lines returns how many records were folded in.
func (r *Result) Lines() uint64 {
	return r.lines
}

func (r *Result) Partitions() int {
	return r.partitions
}

// String renders the result in the canonical {key=min/mean/max, ...} form.
func (r *Result) String() string {
	return report.Format(r)
}
