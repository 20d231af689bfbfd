package stats

import (
	"math/big"
)

// exactSum accumulates values without rounding, so the result does not
// depend on the order values or partial sums are added in. It stays in
// int64 fixed point until a value or the total no longer fits.
type exactSum struct {
	units int64
	scale int
	big   *big.Rat
}

func newExactSum(v Value) exactSum {
	if v.Rat != nil {
		return exactSum{big: v.Rat}
	}
	return exactSum{units: v.Units, scale: v.Scale}
}

func (s *exactSum) add(v Value) {
	if s.big == nil && v.Rat == nil {
		if s.addFixed(v.Units, v.Scale) {
			return
		}
	}
	s.big = new(big.Rat).Add(s.rat(), v.rat())
	s.units, s.scale = 0, 0
}

func (s *exactSum) merge(o exactSum) {
	s.add(Value{Units: o.units, Scale: o.scale, Rat: o.big})
}

// addFixed reports false, leaving s untouched, on overflow.
func (s *exactSum) addFixed(units int64, scale int) bool {
	cur, curScale := s.units, s.scale
	var ok bool

	switch {
	case scale > curScale:
		if cur, ok = mulPow10(cur, scale-curScale); !ok {
			return false
		}
		curScale = scale
	case scale < curScale:
		if units, ok = mulPow10(units, curScale-scale); !ok {
			return false
		}
	}

	sum := cur + units
	if (cur > 0 && units > 0 && sum < 0) || (cur < 0 && units < 0 && sum >= 0) {
		return false
	}
	s.units, s.scale = sum, curScale
	return true
}

func (s exactSum) rat() *big.Rat {
	if s.big != nil {
		return s.big
	}
	return fixedToRat(s.units, s.scale)
}

func (s exactSum) float64() float64 {
	if s.big != nil {
		f, _ := s.big.Float64()
		return f
	}
	return fixedToFloat(s.units, s.scale)
}

// mean divides the exact sum by count and rounds once.
func (s exactSum) mean(count uint64) float64 {
	if s.big == nil && s.units > -exactFloatInt && s.units < exactFloatInt &&
		s.scale <= 15 && count < exactFloatInt/uint64(pow10Int[s.scale]) {
		return float64(s.units) / (float64(count) * pow10[s.scale])
	}

	q := new(big.Rat).SetUint64(count)
	f, _ := new(big.Rat).Quo(s.rat(), q).Float64()
	return f
}

func mulPow10(x int64, d int) (int64, bool) {
	if d > MAX_SCALE {
		return 0, false
	}
	p := pow10Int[d]
	if x > 0 && x > (1<<63-1)/p || x < 0 && x < (-1<<63)/p {
		return 0, false
	}
	return x * p, true
}
