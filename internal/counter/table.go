package counter

import (
	"github.com/FAU-CDI/wordcount/internal/hashtable"
	"github.com/FAU-CDI/wordcount/internal/loadfactor"
)

// tableCounter counts using an open addressing table that honors the full config.
type tableCounter struct {
	*hashtable.Table
}

func newTable(expected int, cfg loadfactor.Config, opts ...hashtable.Option) Counter {
	return tableCounter{Table: hashtable.New(expected, cfg, opts...)}
}

func (tc tableCounter) Increment(key string) {
	tc.Table.Add(key, 1)
}

func newLinear(expected int, cfg loadfactor.Config) Counter {
	return newTable(expected, cfg, hashtable.WithProbing(hashtable.Linear))
}

func newDouble(expected int, cfg loadfactor.Config) Counter {
	return newTable(expected, cfg, hashtable.WithProbing(hashtable.Double))
}

func newQuadratic(expected int, cfg loadfactor.Config) Counter {
	return newTable(expected, cfg, hashtable.WithProbing(hashtable.Quadratic))
}

// newCompiled picks the layout once, when the counter is created.
// Power-of-two capacities only stay valid when tables exactly double.
func newCompiled(expected int, cfg loadfactor.Config) Counter {
	layout := hashtable.Sparse
	if cfg.Dense() {
		layout = hashtable.Dense
	}
	return newTable(expected, cfg, hashtable.WithLayout(layout), hashtable.WithProbing(hashtable.Linear))
}

var (
	_ Counter = tableCounter{}
	_ Sizer   = tableCounter{}
)
