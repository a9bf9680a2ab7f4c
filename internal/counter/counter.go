// Package counter provides Counter, a uniform interface for counting string occurrences with different maps.
//
// The set of strategies is closed and declared in All.
package counter

import (
	"errors"
	"fmt"

	"github.com/FAU-CDI/wordcount/internal/loadfactor"
)

// Counter counts occurrences of strings.
//
// A Counter is not safe for concurrent use.
type Counter interface {
	// Increment increments the count of key by one.
	// A missing key is inserted with a count of one.
	Increment(key string)

	// Get returns the count of key, or 0 if key was never incremented.
	Get(key string) int

	// Clear removes all keys from this counter.
	// Backing storage is kept where the underlying map allows it.
	Clear()

	// Len returns the number of distinct keys in this counter.
	Len() int
}

// Sizer is implemented by counters that know the size of their own structure.
type Sizer interface {
	// Bytes returns the number of bytes used by the structure, excluding key data.
	Bytes() int64
}

// Strategy is a named way of creating a counter.
type Strategy struct {
	Name  string // unique name, used in reports
	Probe string // key looked up after counting a corpus

	// New creates a counter with room for expected distinct keys, tuned according to cfg.
	New func(expected int, cfg loadfactor.Config) Counter
}

func (s Strategy) String() string {
	return s.Name
}

// All holds all strategies in declaration order.
var All = []Strategy{
	{Name: "hashMap", Probe: "map", New: newMap},
	{Name: "atomicInteger", Probe: "long", New: newAtomic},
	{Name: "mutableInt", Probe: "mutable", New: newMutable},
	{Name: "swiss", Probe: "swiss", New: newSwiss},
	{Name: "cockroachSwiss", Probe: "cockroach", New: newCockroachSwiss},
	{Name: "xsync", Probe: "xsync", New: newXSync},
	{Name: "generic", Probe: "generic", New: newGeneric},
	{Name: "linear", Probe: "linear", New: newLinear},
	{Name: "double", Probe: "double", New: newDouble},
	{Name: "compiled", Probe: "compiled", New: newCompiled},
	{Name: "quadratic", Probe: "quadratic", New: newQuadratic},
	{Name: "radix", Probe: "radix", New: newRadix},
	{Name: "leveldb", Probe: "leveldb", New: newLevelDB},
}

// ErrUnknownStrategy indicates that a strategy name is not contained in All.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Lookup returns the strategy with the given name.
func Lookup(name string) (Strategy, bool) {
	for _, s := range All {
		if s.Name == name {
			return s, true
		}
	}
	return Strategy{}, false
}

// Names returns the names of all strategies in declaration order.
func Names() []string {
	names := make([]string, len(All))
	for i, s := range All {
		names[i] = s.Name
	}
	return names
}

// Select returns the strategies with the given names.
// Strategies are returned in declaration order, regardless of the order of names.
//
// If no names are given, returns All.
func Select(names ...string) ([]Strategy, error) {
	if len(names) == 0 {
		return All, nil
	}

	wanted := make(map[string]struct{}, len(names))

	var errs []error
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStrategy, name))
			continue
		}
		wanted[name] = struct{}{}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	strategies := make([]Strategy, 0, len(wanted))
	for _, s := range All {
		if _, ok := wanted[s.Name]; ok {
			strategies = append(strategies, s)
		}
	}
	return strategies, nil
}
