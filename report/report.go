package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"brc/stats"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/slices"
)

// Summary is a finalized set of per-key statistics.
type Summary interface {
	Keys() []string
	Get(key string) (stats.Entry, bool)
}

// Format renders s as {key=min/mean/max, ...} with keys in byte order.
func Format(s Summary) string {
	keys := sortedKeys(s)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		e, _ := s.Get(key)
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(FormatValue(e.Min))
		sb.WriteByte('/')
		sb.WriteString(FormatMean(e.Mean()))
		sb.WriteByte('/')
		sb.WriteString(FormatValue(e.Max))
	}
	sb.WriteByte('}')

	return sb.String()
}

// FormatValue renders v as the shortest decimal that reads back to v,
// always with a fractional part: 12.0, -5.3, 0.0001. Magnitudes below
// 1e-4 or at least 1e16 use exponent form, e.g. 1e-05 and 1.5e+16.
func FormatValue(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// FormatMean renders m with exactly one fractional digit. Rounding is
// applied to the exact binary value with ties to even, so 0.25 gives 0.2
// while 0.35, stored as 0.34999..., gives 0.3.
func FormatMean(m float64) string {
	return strconv.FormatFloat(m, 'f', 1, 64)
}

// WriteTable renders s as a table with one row per key in byte order.
func WriteTable(w io.Writer, s Summary) {
	keys := sortedKeys(s)

	data := make([][]string, len(keys))
	for i, key := range keys {
		e, _ := s.Get(key)
		data[i] = []string{
			key,
			FormatValue(e.Min),
			FormatMean(e.Mean()),
			FormatValue(e.Max),
			fmt.Sprintf("%d", e.Count),
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Min", "Mean", "Max", "Count"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(data)
	table.Render()
}

func sortedKeys(s Summary) []string {
	keys := s.Keys()
	slices.Sort(keys)
	return keys
}
