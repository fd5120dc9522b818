package table

import (
	"fmt"
	"slices"
	"sort"
)

// Table is an in-memory column store of matches. Rows are addressed by
// position, columns by name. A Table is not safe for concurrent writes but
// may be read from many goroutines once built.
type Table struct {
	names []string
	index map[string]int
	cols  [][]Cell
	rows  int
}

// New returns an empty table with the given columns
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int)}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

func (t *Table) Len() int {
	return t.rows
}

// Columns returns the column names in insertion order
func (t *Table) Columns() []string {
	return slices.Clone(t.names)
}

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require fails with ErrMissingColumn naming the first absent column
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return fmt.Errorf("%w: %q", ErrMissingColumn, n)
		}
	}
	return nil
}

// AddColumn creates name with every cell Unset. An existing column is reset.
func (t *Table) AddColumn(name string) {
	if i, ok := t.index[name]; ok {
		t.cols[i] = make([]Cell, t.rows)
		return
	}
	t.index[name] = len(t.names)
	t.names = append(t.names, name)
	t.cols = append(t.cols, make([]Cell, t.rows))
}

// Drop removes the named columns, ignoring any that are absent
func (t *Table) Drop(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	keptNames := t.names[:0]
	keptCols := t.cols[:0]
	for i, n := range t.names {
		if drop[n] {
			continue
		}
		keptNames = append(keptNames, n)
		keptCols = append(keptCols, t.cols[i])
	}
	t.names = keptNames
	t.cols = keptCols
	t.index = make(map[string]int, len(t.names))
	for i, n := range t.names {
		t.index[n] = i
	}
}

// Column returns the cells of name. The slice is owned by the table and
// must not be modified.
func (t *Table) Column(name string) ([]Cell, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return t.cols[i], nil
}

// Get returns the cell at row in column name, Unset if the column is absent
func (t *Table) Get(row int, name string) Cell {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return Cell{}
	}
	return t.cols[i][row]
}

// Text returns the string form of a cell
func (t *Table) Text(row int, name string) string {
	return t.Get(row, name).String()
}

func (t *Table) Set(row int, name string, c Cell) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	if row < 0 || row >= t.rows {
		return fmt.Errorf("row %d out of range [0, %d)", row, t.rows)
	}
	t.cols[i][row] = c
	return nil
}

// Append adds a row. Columns not yet in the table are created, columns
// not mentioned in values stay Unset for this row.
func (t *Table) Append(values map[string]Cell) int {
	for name := range values {
		if !t.Has(name) {
			t.AddColumn(name)
		}
	}
	for i, name := range t.names {
		t.cols[i] = append(t.cols[i], values[name])
	}
	t.rows++
	return t.rows - 1
}

// Row returns a copy of one row keyed by column name
func (t *Table) Row(row int) map[string]Cell {
	out := make(map[string]Cell, len(t.names))
	for i, n := range t.names {
		out[n] = t.cols[i][row]
	}
	return out
}

// Filter returns a new table holding the rows for which keep is true
func (t *Table) Filter(keep func(row int) bool) *Table {
	var rows []int
	for r := 0; r < t.rows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return t.pick(rows)
}

// SortBy orders rows by the string form of column name. The sort is stable.
func (t *Table) SortBy(name string) error {
	col, err := t.Column(name)
	if err != nil {
		return err
	}
	sorted := true
	for r := 1; r < len(col) && sorted; r++ {
		sorted = col[r-1].String() <= col[r].String()
	}
	if sorted {
		return nil
	}
	order := make([]int, t.rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return col[order[a]].String() < col[order[b]].String()
	})
	t.cols = t.pick(order).cols
	return nil
}

func (t *Table) pick(rows []int) *Table {
	out := &Table{
		names: slices.Clone(t.names),
		index: make(map[string]int, len(t.names)),
		cols:  make([][]Cell, len(t.names)),
		rows:  len(rows),
	}
	for i, n := range t.names {
		out.index[n] = i
		col := make([]Cell, len(rows))
		for j, r := range rows {
			col[j] = t.cols[i][r]
		}
		out.cols[i] = col
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	return t.Filter(func(int) bool { return true })
}

// Complete verifies that no cell of the named columns is Unset
func (t *Table) Complete(names ...string) error {
	for _, n := range names {
		col, err := t.Column(n)
		if err != nil {
			return err
		}
		for r, c := range col {
			if !c.IsSet() {
				return fmt.Errorf("%w: column %q row %d was never written", ErrIncomplete, n, r)
			}
		}
	}
	return nil
}
