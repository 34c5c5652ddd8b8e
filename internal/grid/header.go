package grid

import "fmt"

const (
	// IndexColumn is the HitTest result for the index header, and the sort
	// position after an explicit index sort.
	IndexColumn = -1
	// Unsorted is the sort position of data still in load order.
	Unsorted = -2
)

// Sorter owns the dataset order. The header never sorts the dataset itself.
type Sorter interface {
	SortByColumn(i int) error
	SortByIndex()
}

// Header maps clicks on column labels to sort requests.
type Header struct {
	columns []string
	widths  Widths
	sorter  Sorter
}

func newHeader(columns []string, widths Widths, sorter Sorter) *Header {
	return &Header{columns: columns, widths: widths, sorter: sorter}
}

// ClickIndex restores load order.
func (h *Header) ClickIndex() {
	h.sorter.SortByIndex()
}

// ClickColumn sorts by column i.
func (h *Header) ClickColumn(i int) error {
	if i < 0 || i >= len(h.columns) {
		return fmt.Errorf("column %d out of range", i)
	}
	return h.sorter.SortByColumn(i)
}

// Click dispatches a hit-test result to ClickIndex or ClickColumn.
func (h *Header) Click(col int) error {
	if col == IndexColumn {
		h.ClickIndex()
		return nil
	}
	return h.ClickColumn(col)
}

// HitTest maps a character offset in a header line whose cells are joined
// by gap spaces to IndexColumn or a column number. Offsets on a gap belong
// to the cell on their left.
func (h *Header) HitTest(x, gap int) (int, bool) {
	if x < 0 || x >= h.widths.LineWidth(gap) {
		return 0, false
	}
	offsets := h.widths.Offsets(gap)
	for i := len(offsets) - 1; i >= 0; i-- {
		if x >= offsets[i] {
			return i - 1, true
		}
	}
	return 0, false
}

// Labels returns the header text, index first. The column at sorted, or the
// index after an explicit index sort, carries marker. Unsorted marks
// nothing.
func (h *Header) Labels(sorted int, marker string) []string {
	out := make([]string, 1+len(h.columns))
	if sorted == IndexColumn {
		out[0] = marker
	}
	for i, c := range h.columns {
		if i == sorted && marker != "" {
			c += " " + marker
		}
		out[i+1] = c
	}
	return out
}
