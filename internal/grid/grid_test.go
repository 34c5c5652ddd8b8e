package grid

import (
	"strings"
	"testing"

	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderColumnSortResetsWindow(t *testing.T) {
	g := newTestGrid(t, 20, 10)
	g.Scroll(500)
	require.Equal(t, 5, g.Window().TopIndex())

	require.NoError(t, g.Header().ClickColumn(1))

	assert.Equal(t, "name", g.SortColumn())
	assert.Equal(t, 0, g.Window().TopIndex())
	// "name" sorts in reverse load order.
	assert.Equal(t, []int{19, 18, 17, 16, 15, 14, 13, 12, 11, 10}, visibleKeys(g.Window()))
}

func TestHeaderIndexRestoresOrder(t *testing.T) {
	g := newTestGrid(t, 20, 10)
	require.NoError(t, g.Header().ClickColumn(1))
	g.Scroll(300)

	g.Header().ClickIndex()

	assert.Equal(t, "", g.SortColumn())
	assert.Equal(t, 0, g.Window().TopIndex())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, visibleKeys(g.Window()))
	for i := 0; i < g.Dataset().Len(); i++ {
		assert.Equal(t, i, g.Dataset().Row(i).Key)
	}
}

func TestHeaderClickOutOfRange(t *testing.T) {
	g := newTestGrid(t, 5, 5)

	assert.Error(t, g.Header().ClickColumn(2))
	assert.Error(t, g.Header().Click(-2))
}

func TestSortUnknownColumn(t *testing.T) {
	g := newTestGrid(t, 5, 5)
	g.Scroll(100)

	err := g.SortBy("missing")

	assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
	assert.Equal(t, "", g.SortColumn())
}

func TestHeaderHitTest(t *testing.T) {
	ds := dataset.New("t", []string{"a", "bbbb"})
	ds.Append([]dataset.Value{dataset.Int(1), dataset.String("x")})
	g := New(ds, Options{VisibleRows: 10, Padding: 1})
	// index 2, a 2, bbbb 5, gap 1: "ii aa bbbbb"
	require.Equal(t, []int{0, 3, 6}, g.Widths().Offsets(1))

	cases := []struct {
		x    int
		col  int
		isOK bool
	}{
		{0, IndexColumn, true},
		{2, IndexColumn, true},
		{3, 0, true},
		{5, 0, true},
		{6, 1, true},
		{10, 1, true},
		{11, 0, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		col, ok := g.Header().HitTest(c.x, 1)
		assert.Equal(t, c.isOK, ok, "x=%d", c.x)
		if c.isOK {
			assert.Equal(t, c.col, col, "x=%d", c.x)
		}
	}
}

func TestHeaderLabels(t *testing.T) {
	g := newTestGrid(t, 5, 5)

	assert.Equal(t, Unsorted, g.SortPosition())
	assert.Equal(t, []string{"", "id", "name"}, g.Header().Labels(g.SortPosition(), "▲"))

	require.NoError(t, g.SortBy("id"))
	assert.Equal(t, []string{"", "id ▲", "name"}, g.Header().Labels(g.SortPosition(), "▲"))

	g.Header().ClickIndex()
	assert.Equal(t, IndexColumn, g.SortPosition())
	assert.Equal(t, []string{"▲", "id", "name"}, g.Header().Labels(g.SortPosition(), "▲"))
}

func TestHeaderSortDuplicateColumnNames(t *testing.T) {
	ds := dataset.New("dup", []string{"v", "v"})
	ds.Append([]dataset.Value{dataset.Int(1), dataset.Int(9)})
	ds.Append([]dataset.Value{dataset.Int(2), dataset.Int(1)})
	g := New(ds, Options{VisibleRows: 5})

	require.NoError(t, g.Header().ClickColumn(1))

	assert.Equal(t, "1", g.Dataset().Row(0).Values[1].String())
	assert.Equal(t, []int{1, 0}, visibleKeys(g.Window()))
	assert.Equal(t, 1, g.SortPosition())
	assert.Equal(t, "v", g.SortColumn())
	assert.Equal(t, []string{"", "v", "v ▲"}, g.Header().Labels(g.SortPosition(), "▲"))

	require.NoError(t, g.Header().ClickColumn(0))
	assert.Equal(t, []int{0, 1}, visibleKeys(g.Window()))
	assert.Equal(t, []string{"", "v ▲", "v"}, g.Header().Labels(g.SortPosition(), "▲"))
}

func TestMultiLineCellsRenderOnOneLine(t *testing.T) {
	ds, err := dataset.Read(strings.NewReader("a,b\n\"x\ny\",2\n"), "x.csv", dataset.FormatCSV, true)
	require.NoError(t, err)

	g := New(ds, Options{VisibleRows: 5})

	views := g.Window().Visible()
	require.Len(t, views, 1)
	for _, cell := range views[0].Cells {
		assert.NotContains(t, cell, "\n")
	}
	assert.Equal(t, 4, g.Widths().Columns[0])
}

func TestDefaultsApplied(t *testing.T) {
	g := New(numbered(30), Options{})

	assert.Equal(t, DefaultVisibleRows, g.Window().VisibleCount())
	assert.Equal(t, 10, g.Window().BufferSize())
}
