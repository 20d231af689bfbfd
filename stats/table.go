package stats

import (
	"github.com/cespare/xxhash/v2"
)

const (
	DEFAULT_CAPACITY = 1024

	// Grow once the table is 3/4 full.
	maxLoadNum = 3
	maxLoadDen = 4
)

// Table maps keys to their running statistics. Lookups hash the raw key
// bytes, so folding into an existing key never allocates.
//
// A Table is not safe for concurrent use; parallel scans give each worker
// its own table and combine them with Merge.
type Table struct {
	// slots holds 1-based indexes into items, 0 marks an empty slot.
	slots []int32
	items []item
	mask  uint64
}

type item struct {
	hash uint64
	key  string
	Entry
}

func NewTable() *Table {
	return NewTableSize(DEFAULT_CAPACITY)
}

// NewTableSize returns a table sized to hold n keys before growing.
func NewTableSize(n int) *Table {
	size := 16
	for size*maxLoadNum < n*maxLoadDen {
		size <<= 1
	}
	return &Table{
		slots: make([]int32, size),
		items: make([]item, 0, n),
		mask:  uint64(size - 1),
	}
}

// Upsert folds v into the entry for key, creating it on first sight.
func (t *Table) Upsert(key []byte, v Value) {
	h := xxhash.Sum64(key)
	i := h & t.mask

	for {
		s := t.slots[i]
		if s == 0 {
			t.insert(i, item{hash: h, key: string(key), Entry: newEntry(v)})
			return
		}

		it := &t.items[s-1]
		if it.hash == h && it.key == string(key) {
			it.Add(v)
			return
		}
		i = (i + 1) & t.mask
	}
}

// Merge folds every entry of o into t. o is left untouched.
func (t *Table) Merge(o *Table) {
	for _, oi := range o.items {
		t.mergeItem(oi)
	}
}

func (t *Table) Get(key string) (Entry, bool) {
	h := xxhash.Sum64String(key)
	i := h & t.mask

	for {
		s := t.slots[i]
		if s == 0 {
			return Entry{}, false
		}
		it := &t.items[s-1]
		if it.hash == h && it.key == key {
			return it.Entry, true
		}
		i = (i + 1) & t.mask
	}
}

func (t *Table) Len() int {
	return len(t.items)
}

// Cap returns how many keys the table holds before it next grows.
func (t *Table) Cap() int {
	return len(t.slots) * maxLoadNum / maxLoadDen
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.items))
	for i, it := range t.items {
		keys[i] = it.key
	}
	return keys
}

// Range calls f for every key in insertion order until f returns false.
func (t *Table) Range(f func(key string, e Entry) bool) {
	for _, it := range t.items {
		if !f(it.key, it.Entry) {
			return
		}
	}
}

func (t *Table) mergeItem(oi item) {
	i := oi.hash & t.mask
	for {
		s := t.slots[i]
		if s == 0 {
			t.insert(i, oi)
			return
		}

		it := &t.items[s-1]
		if it.hash == oi.hash && it.key == oi.key {
			it.Merge(oi.Entry)
			return
		}
		i = (i + 1) & t.mask
	}
}

// insert places it at slot i, which the caller has found empty.
func (t *Table) insert(i uint64, it item) {
	t.items = append(t.items, it)
	t.slots[i] = int32(len(t.items))

	if len(t.items)*maxLoadDen > len(t.slots)*maxLoadNum {
		t.grow()
	}
}

func (t *Table) grow() {
	slots := make([]int32, len(t.slots)*2)
	mask := uint64(len(slots) - 1)

	for idx, it := range t.items {
		i := it.hash & mask
		for slots[i] != 0 {
			i = (i + 1) & mask
		}
		slots[i] = int32(idx + 1)
	}

	t.slots = slots
	t.mask = mask
}
