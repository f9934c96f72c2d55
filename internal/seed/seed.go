// Package seed turns strings into reproducible pseudo-random fractions.
//
// The formulas are fixed: changing either function invalidates every
// previously observed lookup result.
package seed

import (
	"math"
	"unicode/utf16"
)

// FromString computes a 31-multiplier rolling hash over the UTF-16 code units
// of s, truncated to a signed 32-bit integer, and returns its absolute value.
// The empty string yields 0.
func FromString(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// PseudoRandom returns frac(sin(seed) * 10000), a value in [0,1).
func PseudoRandom(seed float64) float64 {
	x := math.Sin(seed) * 10000
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

// Derive scales base by factor and feeds it to PseudoRandom. Factors in use
// must never change once results have been observed.
func Derive(base uint32, factor float64) float64 {
	return PseudoRandom(float64(base) * factor)
}

// Index maps a fraction onto [0, n). n must be positive.
func Index(p float64, n int) int {
	i := int(math.Floor(p * float64(n)))
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
