// Package hashtable implements an open addressing hash table counting strings.
//
// Unlike the builtin map, a Table follows a loadfactor.Config exactly:
// it is created with room for an expected number of keys at the target load,
// grows once the maximal load is exceeded, and never gives up its capacity when cleared.
package hashtable

import (
	"fmt"
	"unsafe"

	"github.com/FAU-CDI/wordcount/internal/loadfactor"
	"github.com/zeebo/xxh3"
)

// minCapacity is the smallest number of slots of any table.
// It ensures that every probe sequence has a non-zero step.
const minCapacity = 4

// Table is an open addressing hash table mapping strings to integer counts.
// The zero value is not ready to use; use New instead.
//
// A Table is not safe for concurrent use.
type Table struct {
	keys []string
	vals []int
	full []bool

	size int // number of used slots
	grow int // once size exceeds grow, the table is resized

	cfg     loadfactor.Config
	probing Probing
	layout  Layout
}

// Option configures a table.
type Option func(*Table)

// WithProbing sets the probing strategy, Linear by default.
func WithProbing(probing Probing) Option {
	return func(t *Table) {
		t.probing = probing
	}
}

// WithLayout sets the storage layout, Sparse by default.
func WithLayout(layout Layout) Option {
	return func(t *Table) {
		t.layout = layout
	}
}

// New creates a new table with room for expected entries at the target load of cfg.
//
// New panics if cfg is invalid, or if the options combine an unsupported probing and layout.
func New(expected int, cfg loadfactor.Config, opts ...Option) *Table {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("hashtable: invalid config: %s", err))
	}

	table := &Table{cfg: cfg}
	for _, opt := range opts {
		opt(table)
	}
	if !table.layout.supports(table.probing) {
		panic(fmt.Sprintf("hashtable: %s layout does not support %s probing", table.layout, table.probing))
	}

	table.alloc(table.layout.capacity(cfg.Capacity(expected)))
	return table
}

// alloc allocates empty storage for exactly capacity slots.
func (t *Table) alloc(capacity int) {
	t.keys = make([]string, capacity)
	t.vals = make([]int, capacity)
	t.full = make([]bool, capacity)

	// keep at least one free slot, so that every probe terminates
	t.grow = int(t.cfg.MaxLoad * float64(capacity))
	if t.grow >= capacity {
		t.grow = capacity - 1
	}
}

// Add adds delta to the value associated with key and returns the new value.
// A missing key is inserted with value delta.
func (t *Table) Add(key string, delta int) int {
	h := xxh3.HashString(key)

	i, ok := t.find(key, h)
	if ok {
		t.vals[i] += delta
		return t.vals[i]
	}

	t.keys[i] = key
	t.vals[i] = delta
	t.full[i] = true
	t.size++

	if t.size > t.grow {
		t.resize()
	}
	return delta
}

// Get returns the value associated with key, or 0 if it does not exist.
func (t *Table) Get(key string) int {
	i, ok := t.find(key, xxh3.HashString(key))
	if !ok {
		return 0
	}
	return t.vals[i]
}

// Clear removes all entries from this table.
// The capacity is retained.
func (t *Table) Clear() {
	clear(t.keys)
	clear(t.vals)
	clear(t.full)
	t.size = 0
}

// Len returns the number of keys in this table.
func (t *Table) Len() int {
	return t.size
}

// Cap returns the number of slots in this table.
func (t *Table) Cap() int {
	return len(t.keys)
}

// Load returns the fraction of used slots.
func (t *Table) Load() float64 {
	return float64(t.size) / float64(len(t.keys))
}

// Bytes returns the number of bytes used by the slots of this table.
// Key data is not included.
func (t *Table) Bytes() int64 {
	slot := unsafe.Sizeof("") + unsafe.Sizeof(int(0)) + unsafe.Sizeof(false)
	return int64(unsafe.Sizeof(*t)) + int64(len(t.keys))*int64(slot)
}

// find returns the slot holding key, or the first free slot on its probe sequence.
func (t *Table) find(key string, h uint64) (index uint64, ok bool) {
	n := uint64(len(t.keys))

	index = t.layout.home(h, n)
	step := t.probing.step(key, n)

	for k := uint64(1); ; k++ {
		if !t.full[index] {
			return index, false
		}
		if t.keys[index] == key {
			return index, true
		}
		index = t.probing.next(index, step, k, n)
	}
}

// resize moves all entries into a larger table.
func (t *Table) resize() {
	capacity := len(t.keys)

	next := int(float64(capacity) * t.cfg.GrowthFactor)
	if wanted := t.cfg.Capacity(t.size); next < wanted {
		next = wanted
	}
	if next <= capacity {
		next = capacity + 1
	}

	keys, vals, full := t.keys, t.vals, t.full
	t.alloc(t.layout.capacity(next))

	for i, used := range full {
		if !used {
			continue
		}
		index, _ := t.find(keys[i], xxh3.HashString(keys[i]))
		t.keys[index] = keys[i]
		t.vals[index] = vals[i]
		t.full[index] = true
	}

	if t.size > t.grow {
		t.resize()
	}
}
