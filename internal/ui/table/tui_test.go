package table

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/imgajeed76/dfview/internal/grid"
	"github.com/imgajeed76/dfview/internal/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(n int) *dataset.Dataset {
	ds := dataset.New("t", []string{"id", "name"})
	for i := 0; i < n; i++ {
		ds.Append([]dataset.Value{
			dataset.Int(int64(i)),
			dataset.String(fmt.Sprintf("row-%03d", n-i)),
		})
	}
	return ds
}

func newTestModel(t *testing.T, n, visible int) viewerModel {
	t.Helper()
	g := grid.New(testDataset(n), grid.Options{VisibleRows: visible, Padding: 1})
	m := newViewerModel(g, DisplayOptions{Theme: styles.DefaultTheme()})
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func send(t *testing.T, m viewerModel, msg tea.Msg) viewerModel {
	t.Helper()
	updated, _ := m.Update(msg)
	vm, ok := updated.(viewerModel)
	require.True(t, ok)
	return vm
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, button tea.MouseButton, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: button, Action: action}
}

func TestWheelScrolls(t *testing.T) {
	m := newTestModel(t, 20, 10)

	m = send(t, m, mouse(5, bodyTop, tea.MouseButtonWheelDown, tea.MouseActionPress))
	m = send(t, m, mouse(5, bodyTop, tea.MouseButtonWheelDown, tea.MouseActionPress))
	assert.Equal(t, 2, m.grid.Window().TopIndex())

	m = send(t, m, mouse(5, bodyTop, tea.MouseButtonWheelUp, tea.MouseActionPress))
	assert.Equal(t, 1, m.grid.Window().TopIndex())
}

func TestWheelDeltaFromOptions(t *testing.T) {
	g := grid.New(testDataset(20), grid.Options{VisibleRows: 10})
	m := newViewerModel(g, DisplayOptions{Theme: styles.DefaultTheme(), WheelDelta: 300})

	send(t, m, mouse(0, bodyTop, tea.MouseButtonWheelDown, tea.MouseActionPress))

	assert.Equal(t, 3, g.Window().TopIndex())
}

func TestMotionHoversAndLeaves(t *testing.T) {
	m := newTestModel(t, 20, 10)

	m = send(t, m, mouse(5, bodyTop+1, tea.MouseButtonNone, tea.MouseActionMotion))
	assert.Equal(t, 1, m.grid.Window().HoveredSlot())

	m = send(t, m, mouse(5, bodyTop+4, tea.MouseButtonNone, tea.MouseActionMotion))
	assert.Equal(t, 4, m.grid.Window().HoveredSlot())

	m = send(t, m, mouse(5, headerLine, tea.MouseButtonNone, tea.MouseActionMotion))
	assert.Equal(t, -1, m.grid.Window().HoveredSlot())

	send(t, m, mouse(5, bodyTop+10, tea.MouseButtonNone, tea.MouseActionMotion))
	assert.Equal(t, -1, m.grid.Window().HoveredSlot())
}

func TestHeaderClickSorts(t *testing.T) {
	m := newTestModel(t, 20, 10)
	m = send(t, m, mouse(0, bodyTop, tea.MouseButtonWheelDown, tea.MouseActionPress))
	// index 3 wide, id 3 wide, name starts at 8
	require.Equal(t, []int{0, 4, 8}, m.grid.Widths().Offsets(columnGap))

	m = send(t, m, mouse(9, headerLine, tea.MouseButtonLeft, tea.MouseActionPress))

	assert.Equal(t, "name", m.grid.SortColumn())
	assert.Equal(t, 1, m.colCursor)
	assert.Equal(t, 0, m.grid.Window().TopIndex())
	assert.Equal(t, 19, m.grid.Window().Visible()[0].Key)
	assert.Contains(t, m.statusMsg, "Sorted by name")

	m = send(t, m, mouse(1, headerLine, tea.MouseButtonLeft, tea.MouseActionPress))

	assert.Equal(t, "", m.grid.SortColumn())
	assert.Equal(t, 0, m.grid.Window().Visible()[0].Key)
}

func TestBodyClickSelects(t *testing.T) {
	m := newTestModel(t, 20, 10)
	m = send(t, m, mouse(0, bodyTop, tea.MouseButtonWheelDown, tea.MouseActionPress))

	m = send(t, m, mouse(2, bodyTop+2, tea.MouseButtonLeft, tea.MouseActionPress))

	key, ok := m.grid.Window().Selected()
	require.True(t, ok)
	assert.Equal(t, 3, key)

	row, ok := m.targetRow()
	require.True(t, ok)
	assert.Equal(t, 3, row.Key)
}

func TestKeysScroll(t *testing.T) {
	m := newTestModel(t, 20, 10)

	m = send(t, m, runes("j"))
	assert.Equal(t, 1, m.grid.Window().TopIndex())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 10, m.grid.Window().TopIndex())

	m = send(t, m, runes("k"))
	assert.Equal(t, 9, m.grid.Window().TopIndex())

	m = send(t, m, runes("g"))
	assert.Equal(t, 0, m.grid.Window().TopIndex())

	m = send(t, m, runes("G"))
	assert.Equal(t, 10, m.grid.Window().TopIndex())
}

func TestKeysSort(t *testing.T) {
	m := newTestModel(t, 20, 10)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.colCursor)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.colCursor)

	m = send(t, m, runes("s"))
	assert.Equal(t, "name", m.grid.SortColumn())
	assert.Equal(t, 1, m.grid.SortPosition())

	m = send(t, m, runes("i"))
	assert.Equal(t, "", m.grid.SortColumn())
	assert.Equal(t, grid.IndexColumn, m.grid.SortPosition())
}

func TestKeysSortDuplicateColumn(t *testing.T) {
	ds := dataset.New("dup", []string{"v", "v"})
	ds.Append([]dataset.Value{dataset.Int(1), dataset.Int(9)})
	ds.Append([]dataset.Value{dataset.Int(2), dataset.Int(1)})
	g := grid.New(ds, grid.Options{VisibleRows: 5})
	m := send(t, newViewerModel(g, DisplayOptions{Theme: styles.DefaultTheme()}), tea.WindowSizeMsg{Width: 80, Height: 24})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, runes("s"))

	assert.Equal(t, 1, m.grid.SortPosition())
	assert.Equal(t, 1, m.grid.Window().Visible()[0].Key)
	assert.Equal(t, []string{"", "v", "v ▲"}, m.grid.Header().Labels(m.grid.SortPosition(), "▲"))
}

func TestHomeEndJump(t *testing.T) {
	m := newTestModel(t, 5000, 10)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 4990, m.grid.Window().TopIndex())
	assert.Equal(t, 4990, m.grid.Window().Visible()[0].Key)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.grid.Window().TopIndex())
	assert.Equal(t, 0, m.grid.Window().Visible()[0].Key)
	assert.Equal(t, 0, m.scrollX)
}

func TestExitKeys(t *testing.T) {
	tests := []struct {
		key  string
		want exitMode
	}{
		{"J", exitJSON},
		{"R", exitRaw},
		{"P", exitPlain},
		{"q", exitNormal},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newTestModel(t, 5, 5)

			updated, cmd := m.Update(runes(tt.key))

			assert.NotNil(t, cmd)
			assert.Equal(t, tt.want, updated.(viewerModel).exitMode)
		})
	}
}

func TestViewRendersWindow(t *testing.T) {
	m := newTestModel(t, 20, 5)
	m = send(t, m, mouse(0, bodyTop, tea.MouseButtonWheelDown, tea.MouseActionPress))

	lines := strings.Split(m.View(), "\n")

	assert.Contains(t, lines[titleLine], "t: 20 rows, 2 columns")
	assert.Contains(t, lines[headerLine], "name")
	assert.Contains(t, lines[separatorLine], "─")
	assert.Contains(t, lines[bodyTop], "row-019")
	assert.Contains(t, lines[bodyTop+4], "row-015")
	assert.Contains(t, lines[bodyTop+5], "rows 2-6 of 20")
}

func TestViewBeforeSize(t *testing.T) {
	g := grid.New(testDataset(3), grid.Options{})
	m := newViewerModel(g, DisplayOptions{Theme: styles.DefaultTheme()})

	assert.Equal(t, "Loading...", m.View())
}

func TestHorizontalScrollFollowsCursor(t *testing.T) {
	ds := dataset.New("wide", []string{"a", "b", "c"})
	ds.Append([]dataset.Value{
		dataset.String(strings.Repeat("x", 30)),
		dataset.String(strings.Repeat("y", 30)),
		dataset.String(strings.Repeat("z", 30)),
	})
	g := grid.New(ds, grid.Options{VisibleRows: 5, Padding: 1})
	m := newViewerModel(g, DisplayOptions{Theme: styles.DefaultTheme()})
	m = send(t, m, tea.WindowSizeMsg{Width: 41, Height: 20})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})

	// index 2, columns 31 each: c spans 67..98, viewport 40
	assert.Equal(t, 58, m.scrollX)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 3, m.scrollX)
}
