package util

import "math"

// AbsFloat64 returns the absolute value of x.
func AbsFloat64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// MaxFloat64 returns the larger of a and b.
func MaxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
