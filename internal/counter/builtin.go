package counter

import (
	"sync/atomic"

	"github.com/FAU-CDI/wordcount/internal/loadfactor"
	"github.com/FAU-CDI/wordcount/pkg/footprint"
)

// builtin maps have a fixed load factor.
// They are given a size hint of the capacity cfg asks for, so that lower loads pre-allocate more.
// The hint is remembered, because the buckets it allocates cannot be discovered afterwards.

// mapCounter stores counts as map values and replaces them on every increment.
type mapCounter struct {
	counts map[string]int
	hint   int
}

func newMap(expected int, cfg loadfactor.Config) Counter {
	hint := cfg.Capacity(expected)
	return &mapCounter{counts: make(map[string]int, hint), hint: hint}
}

func (mc *mapCounter) Increment(key string) {
	merge(mc.counts, key, 1, add)
}

func (mc *mapCounter) Get(key string) int { return mc.counts[key] }
func (mc *mapCounter) Clear()             { clear(mc.counts) }
func (mc *mapCounter) Len() int           { return len(mc.counts) }

func (mc *mapCounter) Footprint(w *footprint.Walker) {
	w.SizeHint(mc.counts, mc.hint)
	w.Walk(mc.counts)
}

func add(old, value int) int {
	return old + value
}

// merge associates value with key if key is not contained in m.
// Otherwise it replaces the existing value with the result of remap.
func merge[K comparable, V any](m map[K]V, key K, value V, remap func(old, value V) V) {
	if old, ok := m[key]; ok {
		m[key] = remap(old, value)
		return
	}
	m[key] = value
}

// atomicCounter boxes each count in a separately allocated atomic integer.
type atomicCounter struct {
	counts map[string]*atomic.Int64
	hint   int
}

func newAtomic(expected int, cfg loadfactor.Config) Counter {
	hint := cfg.Capacity(expected)
	return &atomicCounter{counts: make(map[string]*atomic.Int64, hint), hint: hint}
}

func (ac *atomicCounter) Increment(key string) {
	count, ok := ac.counts[key]
	if !ok {
		count = new(atomic.Int64)
		ac.counts[key] = count
	}
	count.Add(1)
}

func (ac *atomicCounter) Get(key string) int {
	count, ok := ac.counts[key]
	if !ok {
		return 0
	}
	return int(count.Load())
}

func (ac *atomicCounter) Clear()   { clear(ac.counts) }
func (ac *atomicCounter) Len() int { return len(ac.counts) }

func (ac *atomicCounter) Footprint(w *footprint.Walker) {
	w.SizeHint(ac.counts, ac.hint)
	w.Walk(ac.counts)
}

// mutableInt is a plain integer that is updated in place.
type mutableInt struct {
	value int
}

// mutableCounter boxes each count in a separately allocated mutableInt.
type mutableCounter struct {
	counts map[string]*mutableInt
	hint   int
}

func newMutable(expected int, cfg loadfactor.Config) Counter {
	hint := cfg.Capacity(expected)
	return &mutableCounter{counts: make(map[string]*mutableInt, hint), hint: hint}
}

func (mc *mutableCounter) Increment(key string) {
	count, ok := mc.counts[key]
	if !ok {
		count = new(mutableInt)
		mc.counts[key] = count
	}
	count.value++
}

func (mc *mutableCounter) Get(key string) int {
	count, ok := mc.counts[key]
	if !ok {
		return 0
	}
	return count.value
}

func (mc *mutableCounter) Clear()   { clear(mc.counts) }
func (mc *mutableCounter) Len() int { return len(mc.counts) }

func (mc *mutableCounter) Footprint(w *footprint.Walker) {
	w.SizeHint(mc.counts, mc.hint)
	w.Walk(mc.counts)
}

var (
	_ footprint.Reporter = (*mapCounter)(nil)
	_ footprint.Reporter = (*atomicCounter)(nil)
	_ footprint.Reporter = (*mutableCounter)(nil)
)
