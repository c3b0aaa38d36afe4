package common

import "github.com/codecore/imagecodecs/internal/xmath"

// Clamp restricts v to [lo, hi]. Thin wrapper so jpeg/common call sites (the
// IDCT hot loop) don't need a second import; the real implementation lives
// in internal/xmath.
func Clamp(v, lo, hi int) int {
	return xmath.Clamp(v, lo, hi)
}

// DivCeil returns ceil(a/b).
func DivCeil(a, b int) int {
	return xmath.DivCeil(a, b)
}

// ZigZag maps a zig-zag scan position (entropy-coded order) to its natural
// row-major position within an 8x8 block, per spec.md §4.2.3 step 3 and the
// GLOSSARY's "Zig-zag order" entry. ZigZag[k] is the natural-order index that
// the k-th decoded coefficient belongs at.
var ZigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}
