// Package xmath collects small numeric helpers: clamping, rounding, and
// ceiling division. Factored out of jpeg/standard's per-codec Clamp16;
// within this module it is imported only by jpeg/common.
package xmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp restricts v to the inclusive range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DivCeil returns ceil(a/b) for positive integers.
func DivCeil(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RoundToEven rounds a float64 to the nearest integer, ties to even, matching
// the rounding convention used by JPEG 2000 scalar (de)quantization
// (jpeg2000/quantization.go already used math.RoundToEven directly; this
// wrapper exists so call sites needn't import math themselves).
func RoundToEven(v float64) float64 {
	return math.RoundToEven(v)
}

// ClampRound rounds v to the nearest integer (ties toward positive
// infinity, as floor(v+0.5) does) and clamps to [lo, hi].
func ClampRound(v float64, lo, hi int32) int32 {
	r := int32(math.Floor(v + 0.5))
	return Clamp(r, lo, hi)
}
