package grid

import (
	"strconv"

	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/mattn/go-runewidth"
)

// PixelsPerChar converts character widths into a container width for
// pixel-based hosts (the HTML export).
const PixelsPerChar = 8

// Widths holds character widths for the index column and every data column.
type Widths struct {
	Index   int
	Columns []int
}

// ComputeWidths sizes each column to the wider of its header and the values
// in the first sampleRows rows, plus padding. Overrides, keyed by column
// name, replace the computed width. Rows past the sample may be wider than
// their column and get truncated when formatted.
func ComputeWidths(ds *dataset.Dataset, sampleRows, padding int, overrides map[string]int) Widths {
	cols := ds.Columns()
	w := Widths{
		Index:   len(strconv.Itoa(ds.Len())) + padding,
		Columns: make([]int, len(cols)),
	}

	sample := min(sampleRows, ds.Len())
	for i, name := range cols {
		if o, ok := overrides[name]; ok && o > 0 {
			w.Columns[i] = o
			continue
		}
		width := runewidth.StringWidth(name)
		for r := 0; r < sample; r++ {
			width = max(width, runewidth.StringWidth(ds.Row(r).Values[i].String()))
		}
		w.Columns[i] = width + padding
	}
	return w
}

// All returns the index width followed by the column widths.
func (w Widths) All() []int {
	return append([]int{w.Index}, w.Columns...)
}

// Total is the sum of all character widths.
func (w Widths) Total() int {
	total := w.Index
	for _, c := range w.Columns {
		total += c
	}
	return total
}

// Percents returns each width, index first, as an integer share of Total.
func (w Widths) Percents() []int {
	total := w.Total()
	all := w.All()
	out := make([]int, len(all))
	if total == 0 {
		return out
	}
	for i, c := range all {
		out[i] = 100 * c / total
	}
	return out
}

// PixelWidth is the container width for pixel-based hosts.
func (w Widths) PixelWidth() int {
	return w.Total() * PixelsPerChar
}

// LineWidth is the rendered width of a row when cells are joined by gap
// spaces.
func (w Widths) LineWidth(gap int) int {
	return w.Total() + gap*len(w.Columns)
}

// Offsets returns the starting character of each cell, index first, when
// cells are joined by gap spaces.
func (w Widths) Offsets(gap int) []int {
	all := w.All()
	out := make([]int, len(all))
	x := 0
	for i, c := range all {
		out[i] = x
		x += c + gap
	}
	return out
}
