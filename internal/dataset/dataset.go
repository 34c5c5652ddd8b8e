// Package dataset holds the row-oriented table behind the grid viewer and
// the sources that load it (delimited files, JSON, YAML and PostgreSQL).
//
// A Dataset is mutable: it is sorted in place by column or restored to load
// order by index key. Callers that keep positions into it must re-read after
// sorting.
package dataset

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownColumn is returned when a sort names a column the dataset lacks.
var ErrUnknownColumn = errors.New("unknown column")

// Row is one record. Key is the row's position at load time and serves as
// the index key.
type Row struct {
	Key    int
	Values []Value
}

// Dataset is an ordered sequence of rows aligned to named columns.
type Dataset struct {
	name     string
	columns  []string
	colIndex map[string]int
	rows     []Row
}

// New creates an empty dataset with the given column names.
func New(name string, columns []string) *Dataset {
	d := &Dataset{
		name:     name,
		columns:  slices.Clone(columns),
		colIndex: make(map[string]int, len(columns)),
	}
	for i, c := range d.columns {
		if _, dup := d.colIndex[c]; !dup {
			d.colIndex[c] = i
		}
	}
	return d
}

// Append adds a row at the end. Short rows are padded with nulls and long
// rows are cut to the column count.
func (d *Dataset) Append(values []Value) {
	row := make([]Value, len(d.columns))
	copy(row, values)
	d.rows = append(d.rows, Row{Key: len(d.rows), Values: row})
}

func (d *Dataset) Name() string      { return d.name }
func (d *Dataset) Len() int          { return len(d.rows) }
func (d *Dataset) Columns() []string { return d.columns }

// Row returns the row at position i in the current order.
func (d *Dataset) Row(i int) Row { return d.rows[i] }

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.colIndex[name]
	return i, ok
}

// Find returns the current position of the row with the given index key.
func (d *Dataset) Find(key int) (int, bool) {
	for i, r := range d.rows {
		if r.Key == key {
			return i, true
		}
	}
	return 0, false
}

// SortBy sorts rows ascending by the named column. With duplicate names the
// first column of that name is used; SortByColumn addresses the others.
func (d *Dataset) SortBy(column string) error {
	ci, ok := d.colIndex[column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return d.SortByColumn(ci)
}

// SortByColumn sorts rows ascending by the column at position ci. Rows with
// equal values keep their relative order.
func (d *Dataset) SortByColumn(ci int) error {
	if ci < 0 || ci >= len(d.columns) {
		return fmt.Errorf("%w: position %d", ErrUnknownColumn, ci)
	}
	slices.SortStableFunc(d.rows, func(a, b Row) int {
		return Compare(a.Values[ci], b.Values[ci])
	})
	return nil
}

// SortByIndex restores load order.
func (d *Dataset) SortByIndex() {
	slices.SortFunc(d.rows, func(a, b Row) int {
		return a.Key - b.Key
	})
}

// Strings returns every row as display text, in the current order.
func (d *Dataset) Strings() [][]string {
	out := make([][]string, len(d.rows))
	for i, r := range d.rows {
		cells := make([]string, len(r.Values))
		for j, v := range r.Values {
			cells[j] = v.String()
		}
		out[i] = cells
	}
	return out
}
