package record

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"brc/stats"
)

const DELIMITER = ';'

var (
	ErrNoDelimiter    = errors.New("missing delimiter")
	ErrExtraDelimiter = errors.New("more than one delimiter")
	ErrInvalidValue   = errors.New("value is not a finite decimal number")
)

// FormatError reports a line that does not match <key>;<value>.
type FormatError struct {
	// Line is the 1-based line number, or 0 when unknown.
	Line int
	// Offset is the byte offset of the start of the line.
	Offset int64
	Text   string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record on line %d (offset %d) %q: %v", e.Line, e.Offset, e.Text, e.Err)
	}
	return fmt.Sprintf("malformed record at offset %d %q: %v", e.Offset, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Parse splits a line into its key and value. The returned key aliases
// line, so callers that retain it must copy.
func Parse(line []byte) ([]byte, stats.Value, error) {
	idx := bytes.IndexByte(line, DELIMITER)
	if idx < 0 {
		return nil, stats.Value{}, ErrNoDelimiter
	}

	key, valBytes := line[:idx], line[idx+1:]
	if bytes.IndexByte(valBytes, DELIMITER) >= 0 {
		return nil, stats.Value{}, ErrExtraDelimiter
	}

	v, err := ParseValue(valBytes)
	if err != nil {
		return nil, stats.Value{}, err
	}
	return key, v, nil
}

// ParseValue parses a base-10 number. Plain decimals such as -12.3 take an
// allocation-free path; anything else goes through strconv and is kept
// exactly as the float64 it rounds to.
func ParseValue(b []byte) (stats.Value, error) {
	if v, ok := parseSimple(b); ok {
		return v, nil
	}

	// strconv also accepts hex floats, which are not base-10.
	if bytes.IndexAny(b, "xX") >= 0 {
		return stats.Value{}, ErrInvalidValue
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return stats.Value{}, ErrInvalidValue
	}
	return stats.Float(f), nil
}

// parseSimple handles -?digits(.digits)? with at most 15 digits. The
// mantissa and the power of ten are both exact, so the float is correctly
// rounded and matches strconv.ParseFloat bit for bit.
func parseSimple(b []byte) (stats.Value, bool) {
	var i int
	var neg bool
	if len(b) > 0 && b[0] == '-' {
		neg = true
		i++
	}

	var mantissa int64
	var digits, fracDigits int
	var dot bool

	for ; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= '0' && c <= '9':
			mantissa = mantissa*10 + int64(c-'0')
			digits++
			if dot {
				fracDigits++
			}
		case c == '.' && !dot:
			dot = true
		default:
			return stats.Value{}, false
		}
	}

	if digits == 0 || digits > 15 || (dot && fracDigits == 0) {
		return stats.Value{}, false
	}

	if neg {
		mantissa = -mantissa
	}
	v := stats.Decimal(mantissa, fracDigits)
	if neg && mantissa == 0 {
		v.Float = math.Copysign(0, -1)
	}
	return v, true
}
