package grid

import "github.com/imgajeed76/dfview/internal/dataset"

// ScrollSensitivity is the wheel delta that moves the window by one row.
const ScrollSensitivity = 100

// Window is a fixed-capacity circular buffer of row views over a dataset.
//
// The buffer holds bufferSize views bound to consecutive dataset rows
// starting at the top index; the first visibleCount of them are shown.
// Scrolling one step moves a single view from one end of the buffer to the
// other and rebinds it, so a scroll costs O(steps) rather than
// O(visibleCount).
type Window struct {
	ds     *dataset.Dataset
	widths Widths

	views []*RowView
	head  int // buffer position of the logical front

	top     int
	visible int

	hovered  int // slot, -1 when none
	selected int // index key, -1 when none
}

func evenCeil(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

func newWindow(ds *dataset.Dataset, visibleRows int, widths Widths) *Window {
	w := &Window{
		ds:       ds,
		widths:   widths,
		visible:  min(visibleRows, ds.Len()),
		hovered:  -1,
		selected: -1,
	}
	size := min(ds.Len(), evenCeil(visibleRows))
	w.views = make([]*RowView, size)
	for i := range w.views {
		w.views[i] = newRowView(1 + len(widths.Columns))
	}
	w.Refresh()
	return w
}

// at returns the view at logical position i of the buffer.
func (w *Window) at(i int) *RowView {
	return w.views[(w.head+i)%len(w.views)]
}

func (w *Window) TopIndex() int     { return w.top }
func (w *Window) VisibleCount() int { return w.visible }
func (w *Window) BufferSize() int   { return len(w.views) }

// HoveredSlot returns the highlighted slot, or -1.
func (w *Window) HoveredSlot() int { return w.hovered }

// MaxTop is the largest top index that still fills the window.
func (w *Window) MaxTop() int {
	return max(0, w.ds.Len()-w.visible)
}

// Visible returns the views currently shown, top to bottom.
func (w *Window) Visible() []*RowView {
	out := make([]*RowView, w.visible)
	for i := range out {
		out[i] = w.at(i)
	}
	return out
}

// Scroll moves the window by |deltaY|/ScrollSensitivity rows, down for
// positive deltas and up for negative ones, stopping silently at either end.
// Any hover highlight is cleared first. It returns the number of rows the
// window actually moved.
func (w *Window) Scroll(deltaY int) int {
	w.LeaveHover()
	if len(w.views) == 0 {
		return 0
	}

	steps := deltaY / ScrollSensitivity
	if steps < 0 {
		steps = -steps
	}

	moved := 0
	n := len(w.views)
	for ; steps > 0; steps-- {
		if deltaY > 0 {
			if w.top+w.visible >= w.ds.Len() {
				break
			}
			w.top++
			// The old front becomes the new back.
			back := w.views[w.head]
			w.head = (w.head + 1) % n
			if pos := w.top + n - 1; pos < w.ds.Len() {
				back.bind(w.ds, pos, w.widths)
			} else {
				back.unbind()
			}
		} else {
			if w.top == 0 {
				break
			}
			w.top--
			// The old back becomes the new front.
			w.head = (w.head - 1 + n) % n
			w.views[w.head].bind(w.ds, w.top, w.widths)
		}
		moved++
	}
	return moved
}

// ScrollRows scrolls by whole rows.
func (w *Window) ScrollRows(rows int) int {
	return w.Scroll(rows * ScrollSensitivity)
}

// Hover highlights the slot under relativeY within a body of
// boundingHeight units. It reports whether the highlight changed.
func (w *Window) Hover(relativeY, boundingHeight int) bool {
	if w.visible == 0 {
		return false
	}
	rowHeight := max(1, boundingHeight/w.visible)
	if relativeY < 0 {
		relativeY = -relativeY
	}
	slot := min(w.visible-1, relativeY/rowHeight)
	if slot == w.hovered {
		return false
	}
	if w.hovered >= 0 {
		w.at(w.hovered).Highlighted = false
	}
	w.at(slot).Highlighted = true
	w.hovered = slot
	return true
}

// LeaveHover clears the highlight. It reports whether anything changed.
func (w *Window) LeaveHover() bool {
	if w.hovered < 0 {
		return false
	}
	w.at(w.hovered).Highlighted = false
	w.hovered = -1
	return true
}

// Refresh re-reads the dataset into the existing views from the top index,
// without rotating the buffer. Call it after the dataset was reordered.
func (w *Window) Refresh() {
	w.LeaveHover()
	w.top = min(w.top, w.MaxTop())
	for i := range w.views {
		v := w.at(i)
		if pos := w.top + i; pos < w.ds.Len() {
			v.bind(w.ds, pos, w.widths)
		} else {
			v.unbind()
		}
	}
}

// Reset moves the window back to the first row and refreshes it.
func (w *Window) Reset() {
	w.top = 0
	w.Refresh()
}

// JumpTo moves the window so that top is the first visible row, clamped to
// [0, MaxTop]. It rebinds the buffer once instead of stepping through the
// rows in between, and reports whether the top index changed.
func (w *Window) JumpTo(top int) bool {
	top = max(0, min(top, w.MaxTop()))
	changed := top != w.top
	w.top = top
	w.Refresh()
	return changed
}

// Select records the row shown in slot as the selection and returns its
// index key.
func (w *Window) Select(slot int) (int, bool) {
	if slot < 0 || slot >= w.visible {
		return -1, false
	}
	v := w.at(slot)
	if !v.Bound() {
		return -1, false
	}
	w.selected = v.Key
	return v.Key, true
}

// Selected returns the index key of the selected row.
func (w *Window) Selected() (int, bool) {
	return w.selected, w.selected >= 0
}

// ClearSelection drops the selection.
func (w *Window) ClearSelection() { w.selected = -1 }

// IsSelected reports whether v shows the selected row.
func (w *Window) IsSelected(v *RowView) bool {
	return w.selected >= 0 && v.Bound() && v.Key == w.selected
}
