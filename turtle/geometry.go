package turtle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes. Y is up.
var (
	WorldUp      = mgl64.Vec3{0, 1, 0}
	WorldRight   = mgl64.Vec3{1, 0, 0}
	WorldForward = mgl64.Vec3{0, 0, 1}
)

// degenerate is the cross product magnitude below which two unit vectors
// are treated as parallel.
const degenerate = 1e-6

// frame is the turtle orientation: columns heading, left and up.
// The heading is the direction F moves in.
type frame mgl64.Mat3

func initialFrame() frame {
	return frame(mgl64.Mat3FromCols(WorldUp, mgl64.Vec3{-1, 0, 0}, WorldForward))
}

func (f frame) heading() mgl64.Vec3 { return mgl64.Mat3(f).Col(0) }
func (f frame) left() mgl64.Vec3    { return mgl64.Mat3(f).Col(1) }
func (f frame) up() mgl64.Vec3      { return mgl64.Mat3(f).Col(2) }

// yaw turns around the local up axis; positive turns left.
func (f frame) yaw(a float64) frame {
	return frame(mgl64.Mat3(f).Mul3(mgl64.Rotate3DZ(a))).orthonormal()
}

// pitch turns around the local left axis; positive tips the heading away from up.
func (f frame) pitch(a float64) frame {
	return frame(mgl64.Mat3(f).Mul3(mgl64.Rotate3DY(a))).orthonormal()
}

// roll spins around the heading.
func (f frame) roll(a float64) frame {
	return frame(mgl64.Mat3(f).Mul3(mgl64.Rotate3DX(a))).orthonormal()
}

// tilt tips the heading by a toward the direction at angle dir around it.
// The heading moves by exactly |a| and ends with the original roll.
func (f frame) tilt(dir, a float64) frame {
	return f.roll(dir).pitch(a).roll(-dir)
}

// orthonormal re-derives left and up from the heading so that drift from
// many composed rotations does not accumulate.
func (f frame) orthonormal() frame {
	h, ok := unit(f.heading())
	if !ok {
		return initialFrame()
	}
	l := f.left()
	l = l.Sub(h.Mul(h.Dot(l)))
	l, ok = unit(l)
	if !ok {
		l = Normal(h)
	}
	u := h.Cross(l)
	return frame(mgl64.Mat3FromCols(h, l, u))
}

// unit normalizes v, reporting false for zero or non finite vectors.
func unit(v mgl64.Vec3) (mgl64.Vec3, bool) {
	n := v.Len()
	if !(n > degenerate) || math.IsInf(n, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / n), true
}

// Normal returns a unit vector perpendicular to dir.
//
// It crosses dir with world up, then world right, then world forward,
// taking the first product that is not degenerate. A zero dir gets WorldUp.
func Normal(dir mgl64.Vec3) mgl64.Vec3 {
	d, ok := unit(dir)
	if !ok {
		return WorldUp
	}
	for _, axis := range []mgl64.Vec3{WorldUp, WorldRight, WorldForward} {
		if n, ok := unit(d.Cross(axis)); ok {
			return n
		}
	}
	return WorldUp
}

// finite reports whether v survives conversion to float32 buffers.
func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || !(math.Abs(c) < math.MaxFloat32) {
			return false
		}
	}
	return true
}
