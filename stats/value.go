package stats

import (
	"math/big"
	"strconv"
	"strings"
)

// MAX_SCALE is the most fractional digits a fixed-point value may carry;
// 10^18 is the largest power of ten that fits in an int64.
const MAX_SCALE = 18

// Value is a single measurement: its float64 approximation and its exact
// decimal form Units * 10^-Scale. Values without an int64 fixed-point form
// carry Rat instead, which is never mutated once built.
type Value struct {
	Float float64
	Units int64
	Scale int
	Rat   *big.Rat
}

var (
	pow10 = [...]float64{
		1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10,
		1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
	}
	pow10Int = [MAX_SCALE + 1]int64{
		1, 10, 100, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
		1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18,
	}
)

// Largest integer below which every int64 is exactly a float64.
const exactFloatInt = 1 << 53

// Decimal returns the value units * 10^-scale. scale must be in
// [0, MAX_SCALE].
func Decimal(units int64, scale int) Value {
	return Value{Float: fixedToFloat(units, scale), Units: units, Scale: scale}
}

// Float returns a value whose exact form is the shortest decimal that
// reads back to f. f must be finite.
func Float(f float64) Value {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if len(strings.TrimPrefix(intPart, "-"))+len(frac) <= MAX_SCALE {
		if units, err := strconv.ParseInt(intPart+frac, 10, 64); err == nil {
			return Value{Float: f, Units: units, Scale: len(frac)}
		}
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'e', -1, 64))
	if !ok {
		r = new(big.Rat).SetFloat64(f)
	}
	return Value{Float: f, Rat: r}
}

func (v Value) rat() *big.Rat {
	if v.Rat != nil {
		return v.Rat
	}
	return fixedToRat(v.Units, v.Scale)
}

// fixedToFloat is correctly rounded: when both operands are exact the
// single division rounds once, otherwise big.Rat rounds to nearest.
func fixedToFloat(units int64, scale int) float64 {
	if units > -exactFloatInt && units < exactFloatInt {
		return float64(units) / pow10[scale]
	}
	f, _ := fixedToRat(units, scale).Float64()
	return f
}

func fixedToRat(units int64, scale int) *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(units), big.NewInt(pow10Int[scale]))
}
