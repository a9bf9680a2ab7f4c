package bench

import (
	"testing"

	"github.com/FAU-CDI/wordcount/internal/corpus"
	"github.com/FAU-CDI/wordcount/internal/counter"
	"github.com/FAU-CDI/wordcount/internal/loadfactor"
	"github.com/FAU-CDI/wordcount/internal/results"
	"github.com/FAU-CDI/wordcount/internal/status"
	"github.com/FAU-CDI/wordcount/pkg/footprint"
	"github.com/dustin/go-humanize"
)

// Measure measures a single strategy on a corpus at a load level.
type Measure func(s counter.Strategy, c *corpus.Corpus, level int) int64

// Retained returns the number of heap bytes reachable from a counter populated from c, beyond the baseline of c.
//
// The counter is populated from a detached copy of the corpus, so that it owns exactly one copy of each key.
// Counting the same corpus with the same strategy at the same level always yields the same result.
func Retained(s counter.Strategy, c *corpus.Corpus, level int) int64 {
	built := s.New(c.DistinctCount(), loadfactor.Derive(level))
	Count(built, c.Detached())

	return footprint.Of(built) - c.Baseline()
}

// Time returns the average number of nanoseconds needed to count c.
func Time(s counter.Strategy, c *corpus.Corpus, level int) int64 {
	trial := NewTrial(s, c, level)
	result := testing.Benchmark(trial.Benchmark)
	return result.NsPerOp()
}

var (
	_ Measure = Retained
	_ Measure = Time
)

// Sweep measures every strategy at every level, and collects the results into a table.
// Levels are measured in the given order, strategies in the given order within each level.
//
// Progress is reported to st, which may be nil.
func Sweep(c *corpus.Corpus, strategies []counter.Strategy, levels []int, measure Measure, st *status.Status) (*results.Table, error) {
	var table results.Table

	total := len(strategies) * len(levels)
	st.SetCT(0, total)

	for _, level := range levels {
		for _, s := range strategies {
			value := measure(s, c, level)
			if err := table.Put(s.Name, level, value); err != nil {
				return nil, err
			}

			st.LogDebug("measured", "strategy", s.Name, "level", level, "value", value)
			st.SetCT(table.Len(), total)
		}
	}

	return &table, nil
}

// Sizes returns the structural size of every strategy that implements counter.Sizer, after counting c.
// Strategies that do not implement counter.Sizer are omitted.
func Sizes(c *corpus.Corpus, strategies []counter.Strategy, level int) map[string]string {
	sizes := make(map[string]string)
	for _, s := range strategies {
		trial := NewTrial(s, c, level)
		if sizer, ok := trial.Counter().(counter.Sizer); ok {
			trial.Run()
			sizes[s.Name] = humanize.Bytes(uint64(sizer.Bytes()))
		}
	}
	return sizes
}
