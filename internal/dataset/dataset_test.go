package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func people() *Dataset {
	ds := New("people", []string{"name", "age"})
	ds.Append([]Value{String("carol"), Int(41)})
	ds.Append([]Value{String("alice"), Int(29)})
	ds.Append([]Value{String("bob"), Null()})
	ds.Append([]Value{String("dave"), Int(29)})
	return ds
}

func names(ds *Dataset) []string {
	var out []string
	for i := 0; i < ds.Len(); i++ {
		out = append(out, ds.Row(i).Values[0].String())
	}
	return out
}

func TestAppendAlignsToColumns(t *testing.T) {
	ds := New("t", []string{"a", "b"})
	ds.Append([]Value{Int(1)})
	ds.Append([]Value{Int(1), Int(2), Int(3)})

	require.Equal(t, 2, ds.Len())
	assert.Len(t, ds.Row(0).Values, 2)
	assert.True(t, ds.Row(0).Values[1].IsNull())
	assert.Len(t, ds.Row(1).Values, 2)
	assert.Equal(t, 1, ds.Row(1).Key)
}

func TestSortByIsStable(t *testing.T) {
	ds := people()

	require.NoError(t, ds.SortBy("age"))

	// Null sorts first; alice and dave tie and keep load order.
	assert.Equal(t, []string{"bob", "alice", "dave", "carol"}, names(ds))
}

func TestSortByIndexRestoresLoadOrder(t *testing.T) {
	ds := people()
	require.NoError(t, ds.SortBy("name"))
	require.Equal(t, []string{"alice", "bob", "carol", "dave"}, names(ds))

	ds.SortByIndex()

	assert.Equal(t, []string{"carol", "alice", "bob", "dave"}, names(ds))
	for i := 0; i < ds.Len(); i++ {
		assert.Equal(t, i, ds.Row(i).Key)
	}
}

func TestSortByUnknownColumn(t *testing.T) {
	ds := people()

	err := ds.SortBy("height")

	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Equal(t, []string{"carol", "alice", "bob", "dave"}, names(ds))
}

func TestSortByColumnDuplicateNames(t *testing.T) {
	ds := New("dup", []string{"v", "v"})
	ds.Append([]Value{Int(1), Int(9)})
	ds.Append([]Value{Int(2), Int(1)})

	require.NoError(t, ds.SortByColumn(1))
	assert.Equal(t, "1", ds.Row(0).Values[1].String())
	assert.Equal(t, 1, ds.Row(0).Key)

	// SortBy resolves a duplicate name to its first column.
	require.NoError(t, ds.SortBy("v"))
	assert.Equal(t, 0, ds.Row(0).Key)

	assert.ErrorIs(t, ds.SortByColumn(2), ErrUnknownColumn)
	assert.ErrorIs(t, ds.SortByColumn(-1), ErrUnknownColumn)
}

func TestFind(t *testing.T) {
	ds := people()
	require.NoError(t, ds.SortBy("name"))

	pos, ok := ds.Find(0)
	require.True(t, ok)
	assert.Equal(t, "carol", ds.Row(pos).Values[0].String())

	_, ok = ds.Find(99)
	assert.False(t, ok)
}

func TestStrings(t *testing.T) {
	ds := people()

	assert.Equal(t, []string{"bob", "NULL"}, ds.Strings()[2])
}
