package grid

import (
	"strconv"

	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// FormatCell right-aligns s in width display columns, truncating with an
// ellipsis when it does not fit.
func FormatCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillLeft(s, width)
}

// FormatCells converts one row into display text: the index key first, then
// one cell per column.
func FormatCells(row dataset.Row, widths Widths) []string {
	cells := make([]string, 1+len(widths.Columns))
	formatInto(cells, row, widths)
	return cells
}

// formatInto writes into an existing cell slice so row views can be rebound
// without allocating.
func formatInto(cells []string, row dataset.Row, widths Widths) {
	cells[0] = FormatCell(strconv.Itoa(row.Key), widths.Index)
	for i, w := range widths.Columns {
		var text string
		if i < len(row.Values) {
			text = row.Values[i].String()
		}
		cells[i+1] = FormatCell(text, w)
	}
}
