package mcds

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Column is one typed cell-table column. Numeric kinds (float, int,
// bool) are backed by Floats; categorical columns additionally carry
// decoded Labels.
type Column struct {
	Name string
	Unit string
	Kind Kind

	// Floats always holds the raw numeric values, one per cell.
	Floats []float64
	// Labels holds decoded category names for KindString columns.
	Labels []string
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Floats) }

// Float returns the numeric value of row r.
func (c *Column) Float(r int) float64 { return c.Floats[r] }

// Int returns row r rounded to an integer.
func (c *Column) Int(r int) int64 { return int64(math.Round(c.Floats[r])) }

// Bool interprets row r as a flag.
func (c *Column) Bool(r int) bool { return c.Floats[r] != 0 }

// String returns the decoded label of row r for categorical columns,
// or the numeric value formatted per kind otherwise.
func (c *Column) String(r int) string {
	switch c.Kind {
	case KindString:
		return c.Labels[r]
	case KindInt:
		return fmt.Sprintf("%d", c.Int(r))
	case KindBool:
		return fmt.Sprintf("%t", c.Bool(r))
	default:
		return fmt.Sprintf("%g", c.Floats[r])
	}
}

// Min and Max report the numeric extrema of the column.
// They return NaN for an empty column.
func (c *Column) Min() float64 {
	if len(c.Floats) == 0 {
		return math.NaN()
	}
	return floats.Min(c.Floats)
}

// Max reports the largest numeric value of the column.
func (c *Column) Max() float64 {
	if len(c.Floats) == 0 {
		return math.NaN()
	}
	return floats.Max(c.Floats)
}

// CellTable is the cell-centric view of a snapshot: one row per cell,
// one named typed column per tracked variable, plus the derived
// columns the loader appends (voxel coordinates, per-voxel density,
// vector lengths, substrate rates and concentrations).
type CellTable struct {
	n     int
	cols  []*Column
	index map[string]*Column
}

// newCellTable builds an empty table for n cells.
func newCellTable(n int) *CellTable {
	return &CellTable{n: n, index: make(map[string]*Column)}
}

// add appends a column; a column with the same name is replaced in
// place, keeping the original position.
func (t *CellTable) add(c *Column) {
	if old, ok := t.index[c.Name]; ok {
		*old = *c
		return
	}
	t.cols = append(t.cols, c)
	t.index[c.Name] = c
}

// addFloats is the common case of appending a float column.
func (t *CellTable) addFloats(name, unit string, values []float64) {
	t.add(&Column{Name: name, Unit: unit, Kind: KindFloat, Floats: values})
}

// Len returns the number of cells (rows).
func (t *CellTable) Len() int { return t.n }

// Names returns all column names in alphabetical order.
func (t *CellTable) Names() []string {
	names := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Column returns the named column or ErrColumnNotFound.
func (t *CellTable) Column(name string) (*Column, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return c, nil
}

// IDs returns the cell IDs in row order.
func (t *CellTable) IDs() []int64 {
	c, err := t.Column("ID")
	if err != nil {
		return nil
	}
	ids := make([]int64, t.n)
	for r := 0; r < t.n; r++ {
		ids[r] = c.Int(r)
	}
	return ids
}

// Row returns the row index of the given cell ID, or -1.
func (t *CellTable) Row(id int64) int {
	c, err := t.Column("ID")
	if err != nil {
		return -1
	}
	for r := 0; r < t.n; r++ {
		if c.Int(r) == id {
			return r
		}
	}
	return -1
}

// rowIndex builds an ID → row lookup for repeated access.
func (t *CellTable) rowIndex() map[int64]int {
	idx := make(map[int64]int, t.n)
	for r, id := range t.IDs() {
		idx[id] = r
	}
	return idx
}
