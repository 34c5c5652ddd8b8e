package dataset

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

// TimeLayout is the display format for time values.
const TimeLayout = "2006-01-02 15:04:05"

// Value is a single typed cell.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
}

func Null() Value            { return Value{} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) Interface() any { return v.native() }

// Equal reports whether both values have the same kind and compare equal.
func (v Value) Equal(o Value) bool { return v.kind == o.kind && Compare(v, o) == 0 }

func (v Value) native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTime:
		return v.t
	}
	return nil
}

// String returns the display text of the value.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(TimeLayout)
	}
	return "NULL"
}

func (v Value) number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// rank orders kinds that cannot be compared by value.
func (k Kind) rank() int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindTime:
		return 3
	default:
		return 4
	}
}

// Compare returns -1, 0 or 1. Nulls sort first, ints and floats compare
// numerically with each other, and otherwise mismatched kinds order by kind.
func Compare(a, b Value) int {
	if a.kind == KindInt && b.kind == KindInt {
		return cmp.Compare(a.i, b.i)
	}
	if an, ok := a.number(); ok {
		if bn, ok := b.number(); ok {
			return cmp.Compare(an, bn)
		}
	}
	if a.kind != b.kind {
		return cmp.Compare(a.kind.rank(), b.kind.rank())
	}
	switch a.kind {
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindTime:
		return a.t.Compare(b.t)
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	TimeLayout,
	"2006-01-02",
}

// Infer parses text from a delimited file into the narrowest kind that
// represents it. Empty text is null.
func Infer(s string) Value {
	if s == "" {
		return Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null()
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time(t)
		}
	}
	return String(s)
}

// FromAny converts a decoded JSON, YAML or database value into a Value.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint8:
		return Int(int64(val))
	case uint16:
		return Int(int64(val))
	case uint32:
		return Int(int64(val))
	case uint64:
		if val > math.MaxInt64 {
			return Float(float64(val))
		}
		return Int(int64(val))
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i)
		}
		if f, err := val.Float64(); err == nil {
			return Float(f)
		}
		return String(val.String())
	case string:
		return String(escapeControl(val))
	case time.Time:
		return Time(val)
	case []byte:
		return String(formatBytes(val))
	case fmt.Stringer:
		return String(val.String())
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

func escapeControl(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// formatBytes shows printable byte slices as text and everything else as a size.
func formatBytes(b []byte) string {
	for _, c := range b {
		if c < 32 && c != '\n' && c != '\r' && c != '\t' {
			return fmt.Sprintf("[%d bytes]", len(b))
		}
	}
	return escapeControl(string(b))
}
