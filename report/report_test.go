package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"brc/stats"

	"github.com/stretchr/testify/assert"
)

func table(rows ...any) *stats.Table {
	t := stats.NewTable()
	for i := 0; i < len(rows); i += 2 {
		t.Upsert([]byte(rows[i].(string)), stats.Float(rows[i+1].(float64)))
	}
	return t
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		tbl  *stats.Table
		want string
	}{
		{
			name: "example",
			tbl:  table("Hamburg", 12.0, "Bulawayo", 8.9, "Hamburg", 10.0),
			want: "{Bulawayo=8.9/8.9/8.9, Hamburg=10.0/11.0/12.0}",
		},
		{
			name: "single line",
			tbl:  table("Tokyo", -5.3),
			want: "{Tokyo=-5.3/-5.3/-5.3}",
		},
		{
			name: "empty",
			tbl:  table(),
			want: "{}",
		},
		{
			name: "byte order not locale order",
			tbl:  table("b", 1.0, "B", 2.0, "a", 3.0, "Äb", 4.0, "Zz", 5.0),
			want: "{B=2.0/2.0/2.0, Zz=5.0/5.0/5.0, a=3.0/3.0/3.0, b=1.0/1.0/1.0, Äb=4.0/4.0/4.0}",
		},
		{
			name: "negative mean near zero",
			tbl:  table("x", -0.1, "x", 0.05),
			want: "{x=-0.1/-0.0/0.05}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.tbl))
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{12, "12.0"},
		{-5.3, "-5.3"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{8.9, "8.9"},
		{0.1 + 0.2, "0.30000000000000004"},
		{123.456, "123.456"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{-1.5e16, "-1.5e+16"},
		{9999999999999998, "9999999999999998.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.v))
	}
}

func TestFormatMeanRounding(t *testing.T) {
	tests := []struct {
		m    float64
		want string
	}{
		{11, "11.0"},
		{0.25, "0.2"},
		{0.75, "0.8"},
		{-0.25, "-0.2"},
		{0.35, "0.3"},
		{0.45, "0.5"},
		{2.05, "2.0"},
		{-0.04, "-0.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMean(tt.m), "%v", tt.m)
	}
}

func TestFormatKeysAscending(t *testing.T) {
	tbl := table("delta", 1.0, "alpha", 2.0, "charlie", 3.0, "bravo", 4.0, "alpha", 0.0)
	out := Format(tbl)

	assert.True(t, strings.HasPrefix(out, "{") && strings.HasSuffix(out, "}"))
	parts := strings.Split(out[1:len(out)-1], ", ")
	assert.Len(t, parts, 4)

	var prev string
	for _, p := range parts {
		key := p[:strings.IndexByte(p, '=')]
		assert.Less(t, prev, key)
		prev = key
	}
}

func TestWriteTable(t *testing.T) {
	var b bytes.Buffer
	WriteTable(&b, table("Hamburg", 12.0, "Bulawayo", 8.9, "Hamburg", 10.0))

	out := b.String()
	assert.Contains(t, out, "Key")
	assert.Contains(t, out, "Count")
	assert.Contains(t, out, "Hamburg")
	assert.Contains(t, out, "11.0")
	assert.Less(t, strings.Index(out, "Bulawayo"), strings.Index(out, "Hamburg"))
}
