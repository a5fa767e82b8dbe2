package util

import (
	"golang.org/x/exp/constraints"
)

// Coerce returns a value that is at least min and at most max
func Coerce[T constraints.Ordered](value T, min T, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// ClampAwayFromZero returns value unchanged if its magnitude is at least epsilon,
// otherwise epsilon carrying the sign of value. Zero maps to +epsilon.
func ClampAwayFromZero(value float64, epsilon float64) float64 {
	if value >= epsilon || value <= -epsilon {
		return value
	}
	if value < 0 {
		return -epsilon
	}
	return epsilon
}
