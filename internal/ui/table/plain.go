package table

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/mattn/go-runewidth"
)

// PrintJSON outputs the dataset, in its current order, as a JSON array of
// objects.
func PrintJSON(w io.Writer, ds *dataset.Dataset) error {
	cols := ds.Columns()
	results := make([]map[string]any, ds.Len())

	for i := range results {
		row := ds.Row(i)
		obj := make(map[string]any, len(cols))
		for j, name := range cols {
			obj[name] = jsonValue(row.Values[j])
		}
		results[i] = obj
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// jsonValue maps a value to something encoding/json accepts. Non-finite
// floats become strings.
func jsonValue(v dataset.Value) any {
	switch v.Kind() {
	case dataset.KindFloat:
		f := v.Interface().(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v.String()
		}
		return f
	case dataset.KindTime:
		return v.String()
	}
	return v.Interface()
}

// PrintRaw outputs one tab-separated line per row without a header.
func PrintRaw(w io.Writer, ds *dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	for _, row := range ds.Strings() {
		bw.WriteString(strings.Join(row, "\t"))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// PrintPlain prints an aligned table for non-TTY output, index first.
// Shows full content without truncation.
func PrintPlain(w io.Writer, ds *dataset.Dataset) error {
	cols := ds.Columns()
	if len(cols) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	rows := ds.Strings()

	// Calculate column widths based on actual content (no truncation)
	colWidths := make([]int, len(cols)+1)
	colWidths[0] = len(strconv.Itoa(ds.Len()))
	for i, name := range cols {
		colWidths[i+1] = runewidth.StringWidth(name)
	}
	for _, row := range rows {
		for i, val := range row {
			colWidths[i+1] = max(colWidths[i+1], runewidth.StringWidth(val))
		}
	}

	bw := bufio.NewWriter(w)
	line := func(cells []string, pad func(string, int) string) {
		for i, c := range cells {
			if i > 0 {
				bw.WriteString("  ")
			}
			bw.WriteString(pad(c, colWidths[i]))
		}
		bw.WriteByte('\n')
	}

	line(append([]string{""}, cols...), runewidth.FillRight)

	sep := make([]string, len(colWidths))
	for i, cw := range colWidths {
		sep[i] = strings.Repeat("─", cw)
	}
	line(sep, runewidth.FillRight)

	for i, row := range rows {
		line(append([]string{strconv.Itoa(ds.Row(i).Key)}, row...), runewidth.FillLeft)
	}

	fmt.Fprintf(bw, "\n(%d rows)\n", len(rows))
	return bw.Flush()
}

// truncate shortens s to width display columns, ending with "..." when cut.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
