// Package bench measures the cost of counting a corpus with a counter strategy.
package bench

import (
	"testing"

	"github.com/FAU-CDI/wordcount/internal/corpus"
	"github.com/FAU-CDI/wordcount/internal/counter"
	"github.com/FAU-CDI/wordcount/internal/loadfactor"
)

// Trial holds the state of repeatedly counting a corpus with a single strategy at a single load level.
//
// The counter is created once by NewTrial, and cleared by Reset before every invocation of Run.
type Trial struct {
	strategy counter.Strategy
	corpus   *corpus.Corpus
	cfg      loadfactor.Config

	counter counter.Counter
}

// NewTrial creates a new trial.
// It panics if level is not a valid load level.
func NewTrial(s counter.Strategy, c *corpus.Corpus, level int) *Trial {
	cfg := loadfactor.Derive(level)
	return &Trial{
		strategy: s,
		corpus:   c,
		cfg:      cfg,

		counter: s.New(c.DistinctCount(), cfg),
	}
}

// Reset clears the counter of this trial.
func (t *Trial) Reset() {
	t.counter.Clear()
}

// Run counts every token of the corpus and returns the count of the probe key of the strategy.
func (t *Trial) Run() int {
	Count(t.counter, t.corpus.Tokens())
	return t.counter.Get(t.strategy.Probe)
}

// Counter returns the counter of this trial.
func (t *Trial) Counter() counter.Counter {
	return t.counter
}

// Config returns the config derived from the load level of this trial.
func (t *Trial) Config() loadfactor.Config {
	return t.cfg
}

// sink receives results of Run, so that the compiler cannot drop the work.
var sink int

// Benchmark runs b.N invocations of Run.
// Only Run is timed, resetting the counter is not.
func (t *Trial) Benchmark(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		t.Reset()
		b.StartTimer()

		sink = t.Run()
	}
}

// Count increments c once for every token, in order.
func Count(c counter.Counter, tokens []string) {
	for _, token := range tokens {
		c.Increment(token)
	}
}
