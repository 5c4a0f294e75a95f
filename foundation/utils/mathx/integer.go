// File: integer.go
// Title: Integer Arithmetic Helpers
// Description: Exact integer helpers (absolute value, sign, greatest common
//              divisor, least common multiple) used by the fraction-free
//              matrix routines.
// Author: msto63
// Version: v0.2.1
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with decimal arithmetic
// - 2025-12-14 v0.2.0: Replaced decimal types with exact integer helpers
// - 2026-10-19 v0.2.1: Added overflow-checked multiply, add and LCM

package mathx

import "math"

// Abs returns the absolute value of x
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 according to the sign of x
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// GCD returns the greatest common divisor of |a| and |b|.
// GCD(0, 0) is 0 and GCD(a, 0) is |a|.
func GCD(a, b int) int {
	a, b = Abs(a), Abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// GCDAll folds GCD over values. The result is 0 when every value is 0
// or values is empty.
func GCDAll(values ...int) int {
	result := 0
	for _, v := range values {
		result = GCD(result, v)
		if result == 1 {
			break
		}
	}
	return result
}

// LCM returns the least common multiple of |a| and |b|, or 0 if either is 0
func LCM(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return Abs(a/GCD(a, b)) * Abs(b)
}

// MulChecked returns a*b and whether it fits. A product equal to
// math.MinInt counts as overflow so the result can always be negated.
func MulChecked(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt || b == math.MinInt {
		return 0, false
	}
	p := a * b
	if p/b != a || p == math.MinInt {
		return 0, false
	}
	return p, true
}

// AddChecked returns a+b and whether it fits, with the same
// math.MinInt rule as MulChecked
func AddChecked(a, b int) (int, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) || s == math.MinInt {
		return 0, false
	}
	return s, true
}

// LCMChecked is LCM with overflow detection
func LCMChecked(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	return MulChecked(Abs(a/GCD(a, b)), Abs(b))
}
