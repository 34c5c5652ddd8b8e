package dataset

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		text string
	}{
		{"", KindNull, "NULL"},
		{"null", KindNull, "NULL"},
		{"42", KindInt, "42"},
		{"-7", KindInt, "-7"},
		{"3.5", KindFloat, "3.5"},
		{"1e3", KindFloat, "1000"},
		{"TRUE", KindBool, "true"},
		{"false", KindBool, "false"},
		{"2024-03-01", KindTime, "2024-03-01 00:00:00"},
		{"2024-03-01 12:30:00", KindTime, "2024-03-01 12:30:00"},
		{"2024-03-01T12:30:00Z", KindTime, "2024-03-01 12:30:00"},
		{"hello", KindString, "hello"},
		{"12abc", KindString, "12abc"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := Infer(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.text, v.String())
		})
	}
}

func TestCompare(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"ints", Int(1), Int(2), -1},
		{"int equals float", Int(2), Float(2), 0},
		{"float above int", Float(2.5), Int(2), 1},
		{"strings", String("b"), String("a"), 1},
		{"bools", Bool(false), Bool(true), -1},
		{"times", Time(day), Time(day.Add(time.Hour)), -1},
		{"null first", Null(), Int(-100), -1},
		{"nulls equal", Null(), Null(), 0},
		{"numbers before strings", Int(999), String("1"), -1},
		{"times before strings", Time(day), String("a"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestEqualRequiresSameKind(t *testing.T) {
	assert.True(t, Int(3).Equal(Int(3)))
	assert.False(t, Int(3).Equal(Float(3)))
	assert.True(t, Null().Equal(Null()))
}

func TestFromAny(t *testing.T) {
	assert.True(t, FromAny(nil).IsNull())
	assert.Equal(t, KindInt, FromAny(int32(5)).Kind())
	assert.Equal(t, KindInt, FromAny(json.Number("12")).Kind())
	assert.Equal(t, KindFloat, FromAny(json.Number("1.25")).Kind())
	assert.Equal(t, "a\\nb", FromAny("a\nb").String())
	assert.Equal(t, "[3 bytes]", FromAny([]byte{0, 1, 2}).String())
	assert.Equal(t, "abc", FromAny([]byte("abc")).String())
	assert.Equal(t, "[1 2]", FromAny([]int{1, 2}).String())
}
