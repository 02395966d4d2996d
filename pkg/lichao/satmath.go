package lichao

import "math"

// satMul64 multiplies two int64 values, clamping to the int64 bounds on
// overflow instead of wrapping. Saturation is monotone in both operands,
// which keeps line comparisons at domain points order-consistent even
// when true values clamp.
func satMul64(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}

	// a == -1 would make prod/a below overflow for prod == MinInt64.
	if a == -1 {
		if b == math.MinInt64 {
			return math.MaxInt64
		}

		return -b
	}

	prod := a * b
	if prod/a != b {
		if (a < 0) != (b < 0) {
			return math.MinInt64
		}

		return math.MaxInt64
	}

	return prod
}

// satAdd64 adds two int64 values, clamping to the int64 bounds on overflow.
func satAdd64(a, b int64) int64 {
	sum := a + b

	if a > 0 && b > 0 && sum < 0 {
		return math.MaxInt64
	}

	if a < 0 && b < 0 && sum >= 0 {
		return math.MinInt64
	}

	return sum
}
