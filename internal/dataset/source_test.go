package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "id, name ,score\n1,ann,3.5\n2,ben,\n3,\"c, d\",7\n"

	ds, err := Read(strings.NewReader(in), "scores.csv", FormatCSV, true)
	require.NoError(t, err)

	assert.Equal(t, "scores.csv", ds.Name())
	assert.Equal(t, []string{"id", "name", "score"}, ds.Columns())
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, KindInt, ds.Row(0).Values[0].Kind())
	assert.Equal(t, KindFloat, ds.Row(0).Values[2].Kind())
	assert.True(t, ds.Row(1).Values[2].IsNull())
	assert.Equal(t, "c, d", ds.Row(2).Values[1].String())
}

func TestReadCSVEscapesMultiLineFields(t *testing.T) {
	in := "a,\"b\nc\"\n\"x\ny\",2\n\"tab\there\",3\n"

	ds, err := Read(strings.NewReader(in), "x.csv", FormatCSV, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", `b\nc`}, ds.Columns())
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, `x\ny`, ds.Row(0).Values[0].String())
	assert.Equal(t, `tab\there`, ds.Row(1).Values[0].String())
	assert.Equal(t, KindInt, ds.Row(0).Values[1].Kind())
}

func TestReadTSVWithoutHeader(t *testing.T) {
	in := "a\tb\nc\td\n"

	ds, err := Read(strings.NewReader(in), "x", FormatTSV, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"column_1", "column_2"}, ds.Columns())
	assert.Equal(t, 2, ds.Len())
}

func TestReadCSVRaggedRows(t *testing.T) {
	in := "a,b,c\n1\n1,2,3,4\n"

	ds, err := Read(strings.NewReader(in), "x", FormatCSV, true)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.True(t, ds.Row(0).Values[2].IsNull())
	assert.Len(t, ds.Row(1).Values, 3)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""), "empty.csv", FormatCSV, true)

	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestReadJSONKeepsKeyOrder(t *testing.T) {
	in := `[
		{"zeta": 1, "alpha": "x", "tags": ["a", "b"]},
		{"alpha": "y", "extra": true, "zeta": 2.5}
	]`

	ds, err := Read(strings.NewReader(in), "x.json", FormatJSON, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "tags", "extra"}, ds.Columns())
	assert.Equal(t, KindInt, ds.Row(0).Values[0].Kind())
	assert.Equal(t, `["a","b"]`, ds.Row(0).Values[2].String())
	assert.True(t, ds.Row(0).Values[3].IsNull())
	assert.Equal(t, KindFloat, ds.Row(1).Values[0].Kind())
	assert.Equal(t, KindBool, ds.Row(1).Values[3].Kind())
}

func TestReadJSONRejectsNonList(t *testing.T) {
	_, err := Read(strings.NewReader(`{"a": 1}`), "x.json", FormatJSON, true)
	assert.ErrorIs(t, err, ErrUnsupportedShape)

	_, err = Read(strings.NewReader(`[1, 2]`), "x.json", FormatJSON, true)
	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestReadYAML(t *testing.T) {
	in := `
- host: db1
  port: 5432
  meta: {region: eu}
- port: 6543
  host: db2
  primary: false
`

	ds, err := Read(strings.NewReader(in), "hosts.yaml", FormatYAML, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"host", "port", "meta", "primary"}, ds.Columns())
	assert.Equal(t, "db2", ds.Row(1).Values[0].String())
	assert.Equal(t, KindInt, ds.Row(1).Values[1].Kind())
	assert.Equal(t, `{"region":"eu"}`, ds.Row(0).Values[2].String())
	assert.Equal(t, KindBool, ds.Row(1).Values[3].Kind())
}

func TestReadYAMLRejectsMapping(t *testing.T) {
	_, err := Read(strings.NewReader("a: 1\n"), "x.yaml", FormatYAML, true)

	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"data.csv", FormatCSV},
		{"DATA.TSV", FormatTSV},
		{"x.json", FormatJSON},
		{"x.yml", FormatYAML},
		{"-", FormatCSV},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := DetectFormat("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = DetectFormat("Makefile")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	ds, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "rows.csv", ds.Name())
	assert.Equal(t, 1, ds.Len())

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}.Load(context.Background())
	assert.Error(t, err)
}
