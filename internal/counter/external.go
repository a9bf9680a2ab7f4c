package counter

// spellchecker:words xsync dolthub zyedidia cockroachdb

import (
	"unsafe"

	cockroach "github.com/cockroachdb/swiss"
	"github.com/dolthub/swiss"
	"github.com/puzpuzpuz/xsync/v3"
	g "github.com/zyedidia/generic"
	"github.com/zyedidia/generic/hashmap"
	"github.com/zeebo/xxh3"
	"golang.org/x/exp/slices"

	"github.com/FAU-CDI/wordcount/internal/loadfactor"
	"github.com/FAU-CDI/wordcount/pkg/footprint"
)

// Hash seeds are ignored, so that the same keys always end up in the same buckets.

func hashString(key string, _ uint64) uint64 {
	return xxh3.HashString(key)
}

func hashKey(key *string, _ uintptr) uintptr {
	return uintptr(xxh3.HashString(*key))
}

// swissCounter uses a SwissTable with metadata groups.
type swissCounter struct {
	counts *swiss.Map[string, int]
}

func newSwiss(expected int, cfg loadfactor.Config) Counter {
	return &swissCounter{counts: swiss.NewMap[string, int](uint32(cfg.Capacity(expected)))}
}

func (sc *swissCounter) Increment(key string) {
	count, _ := sc.counts.Get(key)
	sc.counts.Put(key, count+1)
}

func (sc *swissCounter) Get(key string) int {
	count, _ := sc.counts.Get(key)
	return count
}

func (sc *swissCounter) Clear()   { sc.counts.Clear() }
func (sc *swissCounter) Len() int { return sc.counts.Count() }

// cockroachCounter uses a SwissTable that is split into buckets by extendible hashing.
type cockroachCounter struct {
	counts *cockroach.Map[string, int]
	groups *groupRecorder
}

func newCockroachSwiss(expected int, cfg loadfactor.Config) Counter {
	groups := new(groupRecorder)
	counts := cockroach.New[string, int](
		cfg.Capacity(expected),
		cockroach.WithAllocator[string, int](groups),
		cockroach.WithHash[string, int](hashKey),
	)
	return &cockroachCounter{counts: counts, groups: groups}
}

func (cc *cockroachCounter) Increment(key string) {
	count, _ := cc.counts.Get(key)
	cc.counts.Put(key, count+1)
}

func (cc *cockroachCounter) Get(key string) int {
	count, _ := cc.counts.Get(key)
	return count
}

func (cc *cockroachCounter) Clear()   { cc.counts.Clear() }
func (cc *cockroachCounter) Len() int { return cc.counts.Len() }

// groupRecorder allocates groups like the default allocator, and keeps them reachable for measurement.
type groupRecorder struct {
	groups [][]cockroach.Group[string, int]
}

func (gr *groupRecorder) Alloc(n int) []cockroach.Group[string, int] {
	groups := make([]cockroach.Group[string, int], n)
	gr.groups = append(gr.groups, groups)
	return groups
}

func (gr *groupRecorder) Free(groups []cockroach.Group[string, int]) {
	if len(groups) == 0 {
		return
	}
	gr.groups = slices.DeleteFunc(gr.groups, func(other []cockroach.Group[string, int]) bool {
		return &other[0] == &groups[0]
	})
}

// xsyncCounter computes counts in place inside a presized concurrent map.
type xsyncCounter struct {
	counts *xsync.MapOf[string, int]
}

func newXSync(expected int, cfg loadfactor.Config) Counter {
	counts := xsync.NewMapOfWithHasher[string, int](
		hashString,
		xsync.WithPresize(cfg.Capacity(expected)),
		xsync.WithGrowOnly(),
	)
	return &xsyncCounter{counts: counts}
}

func incrementCompute(old int, loaded bool) (int, bool) {
	return old + 1, false
}

func (xc *xsyncCounter) Increment(key string) {
	xc.counts.Compute(key, incrementCompute)
}

func (xc *xsyncCounter) Get(key string) int {
	count, _ := xc.counts.Load(key)
	return count
}

func (xc *xsyncCounter) Clear()   { xc.counts.Clear() }
func (xc *xsyncCounter) Len() int { return xc.counts.Size() }

// layout of the table behind an xsync.MapOf
const (
	xsyncLineBytes  = 64 // buckets and counter stripes each take a cache line
	xsyncTableBytes = unsafe.Sizeof(struct {
		buckets, size []byte
		seed          uint64
	}{})
)

type xsyncEntry struct {
	key   string
	value int
}

// Footprint counts the table of the map, which is only referenced through unsafe pointers.
func (xc *xsyncCounter) Footprint(w *footprint.Walker) {
	w.Walk(xc.counts)

	stats := xc.counts.Stats()
	w.Alloc(xsyncTableBytes)
	w.Alloc(uintptr(stats.RootBuckets) * xsyncLineBytes)
	for i := stats.RootBuckets; i < stats.TotalBuckets; i++ {
		w.Alloc(xsyncLineBytes)
	}
	w.Alloc(uintptr(stats.CounterLen) * xsyncLineBytes)

	xc.counts.Range(func(key string, _ int) bool {
		w.Alloc(unsafe.Sizeof(xsyncEntry{}))
		w.Walk(key)
		return true
	})
}

var _ footprint.Reporter = (*xsyncCounter)(nil)

// genericCounter uses a linear probing map that grows once it is half full.
type genericCounter struct {
	counts *hashmap.Map[string, int]
}

func newGeneric(expected int, cfg loadfactor.Config) Counter {
	return &genericCounter{counts: hashmap.New[string, int](uint64(cfg.Capacity(expected)), g.Equals[string], xxh3.HashString)}
}

func (gc *genericCounter) Increment(key string) {
	count, _ := gc.counts.Get(key)
	gc.counts.Put(key, count+1)
}

func (gc *genericCounter) Get(key string) int {
	count, _ := gc.counts.Get(key)
	return count
}

func (gc *genericCounter) Clear()   { gc.counts.Clear() }
func (gc *genericCounter) Len() int { return gc.counts.Size() }
