package grid

import "github.com/imgajeed76/dfview/internal/dataset"

// Band is the alternating background of a row.
type Band int

const (
	BandEven Band = iota
	BandOdd
)

func bandFor(pos int) Band {
	if pos%2 == 0 {
		return BandEven
	}
	return BandOdd
}

func (b Band) String() string {
	if b == BandOdd {
		return "row_odd"
	}
	return "row_even"
}

// RowView is a reusable display object bound to one dataset row at a time.
// Views are allocated once per buffer slot and rebound while scrolling.
type RowView struct {
	Cells       []string
	Band        Band
	Highlighted bool

	// Row is the bound position in the dataset, -1 when unbound.
	Row int
	// Key is the index key of the bound row.
	Key int
}

func newRowView(ncells int) *RowView {
	return &RowView{Cells: make([]string, ncells), Row: -1, Key: -1}
}

// Bound reports whether the view shows a dataset row.
func (v *RowView) Bound() bool { return v.Row >= 0 }

// bind points the view at dataset position pos and restyles it for that
// position.
func (v *RowView) bind(ds *dataset.Dataset, pos int, widths Widths) {
	row := ds.Row(pos)
	formatInto(v.Cells, row, widths)
	v.Row = pos
	v.Key = row.Key
	v.Band = bandFor(pos)
}

func (v *RowView) unbind() {
	for i := range v.Cells {
		v.Cells[i] = ""
	}
	v.Row = -1
	v.Key = -1
	v.Highlighted = false
}
