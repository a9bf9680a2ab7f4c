package counter_test

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/FAU-CDI/wordcount/internal/counter"
	"github.com/FAU-CDI/wordcount/internal/loadfactor"
)

func ExampleStrategy() {
	s, _ := counter.Lookup("hashMap")

	c := s.New(3, loadfactor.Derive(5))
	for _, word := range []string{"a", "b", "a", "c", "b", "a"} {
		c.Increment(word)
	}

	fmt.Println(c.Get("a"), c.Get("b"), c.Get("c"), c.Get("d"))
	fmt.Println(c.Len())
	// Output: 3 2 1 0
	// 3
}

// newCounter creates a new counter.
func newCounter(t *testing.T, s counter.Strategy, expected int, level int) counter.Counter {
	t.Helper()
	return s.New(expected, loadfactor.Derive(level))
}

// words returns n tokens where token i occurs i % 7 + 1 times.
func words(n int) (tokens []string, counts map[string]int) {
	counts = make(map[string]int, n)
	for round := 0; round < 7; round++ {
		for i := 0; i < n; i++ {
			if i%7 < round {
				continue
			}
			key := "w" + strconv.Itoa(i)
			tokens = append(tokens, key)
			counts[key]++
		}
	}
	return
}

// countersTest runs test against a fresh counter for every strategy and level.
func countersTest(t *testing.T, expected int, test func(t *testing.T, c counter.Counter)) {
	t.Helper()

	for _, s := range counter.All {
		for _, level := range []int{loadfactor.MinLevel, 5, 8, loadfactor.MaxLevel} {
			s, level := s, level
			t.Run(fmt.Sprintf("%s/%d", s.Name, level), func(t *testing.T) {
				t.Parallel()
				test(t, newCounter(t, s, expected, level))
			})
		}
	}
}

func TestCounter_Increment(t *testing.T) {
	t.Parallel()

	tokens, want := words(500)
	countersTest(t, 100, func(t *testing.T, c counter.Counter) {
		for _, token := range tokens {
			c.Increment(token)
		}

		if got := c.Len(); got != len(want) {
			t.Errorf("Len() = %d, want %d", got, len(want))
		}
		for key, count := range want {
			if got := c.Get(key); got != count {
				t.Errorf("Get(%q) = %d, want %d", key, got, count)
			}
		}
		if got := c.Get("missing"); got != 0 {
			t.Errorf("Get(missing) = %d, want 0", got)
		}
	})
}

func TestCounter_Clear(t *testing.T) {
	t.Parallel()

	tokens, want := words(200)
	countersTest(t, len(want), func(t *testing.T, c counter.Counter) {
		// clearing an empty counter is fine
		c.Clear()

		var first []int
		for round := 0; round < 3; round++ {
			c.Clear()
			if got := c.Len(); got != 0 {
				t.Fatalf("round %d: Len() after Clear() = %d, want 0", round, got)
			}

			for _, token := range tokens {
				c.Increment(token)
			}

			counts := make([]int, 0, len(want))
			for i := 0; i < 200; i++ {
				counts = append(counts, c.Get("w"+strconv.Itoa(i)))
			}

			if round == 0 {
				first = counts
				continue
			}
			if !reflect.DeepEqual(counts, first) {
				t.Errorf("round %d: counts differ from the first round", round)
			}
		}
	})
}

// TestCounter_ClearAllocs measures allocations and must not run in parallel with other tests.
func TestCounter_ClearAllocs(t *testing.T) {
	// these strategies allocate again after Clear:
	// atomicInteger and mutableInt box every count, radix and xsync replace their root,
	// and leveldb copies every key and resets its random source.
	reallocating := map[string]bool{
		"atomicInteger": true,
		"mutableInt":    true,
		"xsync":         true,
		"radix":         true,
		"leveldb":       true,
	}

	tokens, want := words(200)
	for _, s := range counter.All {
		if reallocating[s.Name] {
			continue
		}
		for _, level := range []int{loadfactor.MinLevel, 5} {
			s, level := s, level
			t.Run(fmt.Sprintf("%s/%d", s.Name, level), func(t *testing.T) {
				c := newCounter(t, s, len(want), level)
				for _, token := range tokens {
					c.Increment(token)
				}

				allocs := testing.AllocsPerRun(10, func() {
					c.Clear()
					for _, token := range tokens {
						c.Increment(token)
					}
				})
				if allocs != 0 {
					t.Errorf("Clear() and refilling allocates %v times, want 0", allocs)
				}
				if got := c.Len(); got != len(want) {
					t.Errorf("Len() = %d, want %d", got, len(want))
				}
			})
		}
	}
}

func TestCounter_Sizer(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"linear", "double", "compiled", "quadratic"} {
		s, ok := counter.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if _, ok := s.New(10, loadfactor.Derive(5)).(counter.Sizer); !ok {
			t.Errorf("%s does not implement Sizer", name)
		}
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	names := make(map[string]struct{}, len(counter.All))
	for _, s := range counter.All {
		if _, ok := names[s.Name]; ok {
			t.Errorf("duplicate strategy %q", s.Name)
		}
		names[s.Name] = struct{}{}

		if s.Probe == "" || s.New == nil {
			t.Errorf("strategy %q is incomplete", s.Name)
		}
	}

	want := []string{"hashMap", "atomicInteger", "mutableInt", "swiss", "cockroachSwiss", "xsync", "generic", "linear", "double", "compiled", "quadratic", "radix", "leveldb"}
	if got := counter.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		names   []string
		want    []string
		wantErr error
	}{
		{"none selects all", nil, counter.Names(), nil},
		{"declaration order", []string{"radix", "hashMap"}, []string{"hashMap", "radix"}, nil},
		{"duplicates", []string{"swiss", "swiss"}, []string{"swiss"}, nil},
		{"unknown", []string{"swiss", "trove"}, nil, counter.ErrUnknownStrategy},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			strategies, err := counter.Select(tt.names...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Select() error = %v, wantErr %v", err, tt.wantErr)
			}

			var got []string
			for _, s := range strategies {
				got = append(got, s.Name)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}
