// Package grid implements the windowed, sortable view over a dataset: column
// widths, row formatting, the circular row buffer driven by scroll and hover
// events, and the header that turns clicks into sorts.
//
// All methods run on the goroutine delivering UI events and are not safe
// for concurrent use.
package grid

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/imgajeed76/dfview/internal/dataset"
)

const (
	DefaultVisibleRows = 10
	DefaultPadding     = 1
)

// Options configures a Grid.
type Options struct {
	// VisibleRows is the number of rows shown at once.
	VisibleRows int
	// SampleRows is how many leading rows are measured for column widths.
	// Zero means VisibleRows.
	SampleRows int
	// Padding is added to every computed column width, in characters.
	Padding int
	// Widths overrides computed widths by column name.
	Widths map[string]int
	Logger *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		VisibleRows: DefaultVisibleRows,
		Padding:     DefaultPadding,
	}
}

// Grid composes the dataset, the window and the header. It is the single
// owner of sort operations and tells the window when ordering changed.
type Grid struct {
	ds      *dataset.Dataset
	widths  Widths
	window  *Window
	header  *Header
	sortPos int
	log     *slog.Logger
}

// New builds a grid over ds.
func New(ds *dataset.Dataset, opts Options) *Grid {
	if opts.VisibleRows <= 0 {
		opts.VisibleRows = DefaultVisibleRows
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = opts.VisibleRows
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	g := &Grid{
		ds:      ds,
		widths:  ComputeWidths(ds, opts.SampleRows, opts.Padding, opts.Widths),
		log:     logger,
		sortPos: Unsorted,
	}
	g.window = newWindow(ds, opts.VisibleRows, g.widths)
	g.header = newHeader(ds.Columns(), g.widths, g)

	g.log.Debug("grid ready",
		"rows", ds.Len(),
		"columns", len(ds.Columns()),
		"visible", g.window.VisibleCount(),
		"buffer", g.window.BufferSize())
	return g
}

func (g *Grid) Dataset() *dataset.Dataset { return g.ds }
func (g *Grid) Window() *Window           { return g.window }
func (g *Grid) Header() *Header           { return g.header }
func (g *Grid) Widths() Widths            { return g.widths }

// SortPosition returns the position of the sort column, IndexColumn after
// an index sort, or Unsorted.
func (g *Grid) SortPosition() int { return g.sortPos }

// SortColumn returns the name of the sort column, or "" when the data is
// not sorted by a column.
func (g *Grid) SortColumn() string {
	if g.sortPos < 0 {
		return ""
	}
	return g.ds.Columns()[g.sortPos]
}

// SortBy sorts by the first column named column and moves the window back
// to the first row.
func (g *Grid) SortBy(column string) error {
	i, ok := g.ds.ColumnIndex(column)
	if !ok {
		return fmt.Errorf("%w: %q", dataset.ErrUnknownColumn, column)
	}
	return g.SortByColumn(i)
}

// SortByColumn sorts by the column at position i and moves the window back
// to the first row.
func (g *Grid) SortByColumn(i int) error {
	if err := g.ds.SortByColumn(i); err != nil {
		return err
	}
	g.sortPos = i
	g.window.Reset()
	g.log.Debug("sorted", "column", g.ds.Columns()[i], "position", i)
	return nil
}

// SortByIndex restores load order and moves the window back to the first
// row.
func (g *Grid) SortByIndex() {
	g.ds.SortByIndex()
	g.sortPos = IndexColumn
	g.window.Reset()
	g.log.Debug("sorted by index")
}

func (g *Grid) Scroll(deltaY int) int                    { return g.window.Scroll(deltaY) }
func (g *Grid) Hover(relativeY, boundingHeight int) bool { return g.window.Hover(relativeY, boundingHeight) }
func (g *Grid) LeaveHover() bool                         { return g.window.LeaveHover() }
func (g *Grid) Select(slot int) (int, bool)              { return g.window.Select(slot) }

// SelectedRow returns the selected row, wherever it currently sits.
func (g *Grid) SelectedRow() (dataset.Row, bool) {
	key, ok := g.window.Selected()
	if !ok {
		return dataset.Row{}, false
	}
	pos, ok := g.ds.Find(key)
	if !ok {
		return dataset.Row{}, false
	}
	return g.ds.Row(pos), true
}
