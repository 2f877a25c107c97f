package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// IsOne reports whether the value is 1 within float epsilon.
func IsOne(f float32) bool {
	d := f - 1.0
	if d < 0 {
		d = -d
	}
	return d < K_FLOAT_EPSILON
}
