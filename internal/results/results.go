// Package results provides Table, which collects one measurement per strategy and load level.
package results

import (
	"cmp"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrDuplicate is returned when a cell of a table is written twice.
var ErrDuplicate = errors.New("duplicate result")

// Table holds measurements indexed by strategy name and load level.
// The zero value is ready to use.
//
// A Table is not safe for concurrent use.
type Table struct {
	cells map[cell]int64
}

type cell struct {
	Name  string
	Level int
}

// Row is a single measurement of a table.
type Row struct {
	Name  string
	Level int
	Value int64
}

func (row Row) String() string {
	return fmt.Sprintf("%s\t%d\t%d", row.Name, row.Level, row.Value)
}

// Put stores value for the given strategy and level.
// Each cell may only be written once.
func (t *Table) Put(name string, level int, value int64) error {
	if t.cells == nil {
		t.cells = make(map[cell]int64)
	}

	key := cell{Name: name, Level: level}
	if _, ok := t.cells[key]; ok {
		return fmt.Errorf("%w: %s at level %d", ErrDuplicate, name, level)
	}
	t.cells[key] = value
	return nil
}

// Get returns the value stored for the given strategy and level.
func (t *Table) Get(name string, level int) (value int64, ok bool) {
	value, ok = t.cells[cell{Name: name, Level: level}]
	return
}

// Len returns the number of measurements in this table.
func (t *Table) Len() int {
	return len(t.cells)
}

// Rows returns all measurements ordered by name, then by ascending level.
func (t *Table) Rows() []Row {
	keys := maps.Keys(t.cells)
	slices.SortFunc(keys, func(a, b cell) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Level, b.Level)
	})

	rows := make([]Row, len(keys))
	for i, key := range keys {
		rows[i] = Row{Name: key.Name, Level: key.Level, Value: t.cells[key]}
	}
	return rows
}

// WriteTo writes all rows as tab-separated lines to w.
func (t *Table) WriteTo(w io.Writer) (total int64, err error) {
	for _, row := range t.Rows() {
		n, err := fmt.Fprintln(w, row.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

var _ io.WriterTo = (*Table)(nil)
