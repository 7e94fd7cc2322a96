package arbor

import "cmp"

// Clamp limits v to the range between lo and hi, which may come in either order.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	return min(max(v, lo), hi)
}

// Lerp interpolates from v0 at t=0 to v1 at t=1.
func Lerp(v0, v1, t float64) float64 {
	return v0*(1-t) + v1*t
}
