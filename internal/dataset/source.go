package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/imgajeed76/dfview/internal/util"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported data format")
	ErrUnsupportedShape  = errors.New("document must be a list of records")
	ErrNoColumns         = errors.New("data has no columns")
)

// Source loads a dataset from somewhere.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Format names an on-disk encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the formats accepted by ParseFormat.
var Formats = []Format{FormatCSV, FormatTSV, FormatJSON, FormatYAML}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FormatAuto, nil
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
}

// DetectFormat picks a format from the file extension. Standard input ("-")
// defaults to CSV.
func DetectFormat(path string) (Format, error) {
	if path == "-" {
		return FormatCSV, nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	f, err := ParseFormat(ext)
	if err != nil || f == FormatAuto {
		return FormatAuto, fmt.Errorf("%w: cannot infer format of %s (use --format)", ErrUnsupportedFormat, path)
	}
	return f, nil
}

// FileSource reads a dataset from a file, or from standard input when Path
// is "-".
type FileSource struct {
	Path     string
	Format   Format
	NoHeader bool
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (*Dataset, error) {
	format := s.Format
	if format == FormatAuto {
		var err error
		if format, err = DetectFormat(s.Path); err != nil {
			return nil, err
		}
	}

	var r io.Reader = os.Stdin
	name := "stdin"
	if s.Path != "-" {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		r = f
		name = filepath.Base(s.Path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Read(r, name, format, !s.NoHeader)
}

// Read decodes a dataset from r.
func Read(r io.Reader, name string, format Format, header bool) (*Dataset, error) {
	switch format {
	case FormatCSV:
		return readDelimited(r, name, ',', header)
	case FormatTSV:
		return readDelimited(r, name, '\t', header)
	case FormatJSON:
		return readJSON(r, name)
	case FormatYAML:
		return readYAML(r, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func readDelimited(r io.Reader, name string, comma rune, header bool) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoColumns, name)
	}

	var columns []string
	data := records
	if header {
		columns = make([]string, len(records[0]))
		for i, h := range records[0] {
			columns[i] = escapeControl(util.ToValidUTF8(strings.TrimSpace(h)))
		}
		data = records[1:]
	} else {
		columns = make([]string, len(records[0]))
		for i := range columns {
			columns[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	ds := New(name, columns)
	for _, rec := range data {
		values := make([]Value, len(rec))
		// Quoted fields may span lines; every cell must render on one.
		for i, field := range rec {
			values[i] = Infer(escapeControl(util.ToValidUTF8(field)))
		}
		ds.Append(values)
	}
	return ds, nil
}

// recordSet collects records whose fields may arrive in any order. Columns
// are ordered by first appearance.
type recordSet struct {
	columns []string
	seen    map[string]int
	records []map[string]Value
}

func newRecordSet() *recordSet {
	return &recordSet{seen: make(map[string]int)}
}

func (rs *recordSet) add(keys []string, values []Value) {
	rec := make(map[string]Value, len(keys))
	for i, k := range keys {
		if _, ok := rs.seen[k]; !ok {
			rs.seen[k] = len(rs.columns)
			rs.columns = append(rs.columns, k)
		}
		rec[k] = values[i]
	}
	rs.records = append(rs.records, rec)
}

func (rs *recordSet) dataset(name string) (*Dataset, error) {
	if len(rs.columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, name)
	}
	ds := New(name, rs.columns)
	for _, rec := range rs.records {
		values := make([]Value, len(rs.columns))
		for i, c := range rs.columns {
			values[i] = rec[c]
		}
		ds.Append(values)
	}
	return ds, nil
}

func readJSON(r io.Reader, name string) (*Dataset, error) {
	dec := json.NewDecoder(r)
	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedShape, name, err)
	}

	rs := newRecordSet()
	for i, raw := range items {
		keys, values, err := decodeJSONObject(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		rs.add(keys, values)
	}
	return rs.dataset(name)
}

// decodeJSONObject walks one object token by token so key order survives.
func decodeJSONObject(raw json.RawMessage) ([]string, []Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, ErrUnsupportedShape
	}

	var keys []string
	var values []Value
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, nestedValue(v))
	}
	return keys, values, nil
}

// nestedValue renders maps and lists as compact JSON text.
func nestedValue(v any) Value {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return String(fmt.Sprintf("%v", v))
		}
		return String(string(b))
	}
	return FromAny(v)
}

func readYAML(r io.Reader, name string) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", ErrNoColumns, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, name)
	}

	rs := newRecordSet()
	for i, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: %s: record %d", ErrUnsupportedShape, name, i)
		}
		keys := make([]string, 0, len(item.Content)/2)
		values := make([]Value, 0, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			var v any
			if err := item.Content[j+1].Decode(&v); err != nil {
				return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
			}
			keys = append(keys, item.Content[j].Value)
			values = append(values, nestedValue(normalizeYAML(v)))
		}
		rs.add(keys, values)
	}
	return rs.dataset(name)
}

// normalizeYAML converts map[any]any produced for non-string keys so the
// value can be rendered as JSON.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, e := range val {
			val[k] = normalizeYAML(e)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return m
	case []any:
		for i, e := range val {
			val[i] = normalizeYAML(e)
		}
		return val
	}
	return v
}
