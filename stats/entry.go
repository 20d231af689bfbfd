package stats

// Entry holds the running statistics for a single key. The sum is kept
// exact, so Merge is associative and commutative on every field.
type Entry struct {
	Count uint64
	Min   float64
	Max   float64
	sum   exactSum
}

func newEntry(v Value) Entry {
	return Entry{Count: 1, Min: v.Float, Max: v.Float, sum: newExactSum(v)}
}

// Add folds a single value into the entry.
func (e *Entry) Add(v Value) {
	e.Count++
	e.sum.add(v)
	e.Min = min(e.Min, v.Float)
	e.Max = max(e.Max, v.Float)
}

// Merge folds another entry into e.
func (e *Entry) Merge(o Entry) {
	e.Count += o.Count
	e.sum.merge(o.sum)
	e.Min = min(e.Min, o.Min)
	e.Max = max(e.Max, o.Max)
}

// Sum returns the exact sum rounded to the nearest float64.
func (e Entry) Sum() float64 {
	return e.sum.float64()
}

// Mean returns the exact sum divided by Count, rounded once.
func (e Entry) Mean() float64 {
	return e.sum.mean(e.Count)
}
