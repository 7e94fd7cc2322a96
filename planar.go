package arbor

import "math"

// XZ is a point on the ground plane. Y is up, so trees are placed by X and Z.
type XZ struct {
	X, Z float64
}

// Dist returns the planar distance between p and o.
func (p XZ) Dist(o XZ) float64 {
	return math.Hypot(p.X-o.X, p.Z-o.Z)
}

// Within returns true if o is closer to p than r.
func (p XZ) Within(o XZ, r float64) bool {
	return p.Dist(o) < r
}

// Square is the axis aligned square of side `size` centered on the origin.
type Square float64

// Contains returns true if p lies inside the square, edges included.
func (sq Square) Contains(p XZ) bool {
	h := float64(sq) / 2
	return p.X >= -h && p.X <= h && p.Z >= -h && p.Z <= h
}

// Sample draws a point uniformly inside the square.
func (sq Square) Sample(next func() float64) XZ {
	h := float64(sq) / 2
	return XZ{X: Lerp(-h, h, next()), Z: Lerp(-h, h, next())}
}
