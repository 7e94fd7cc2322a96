// Package render draws orthographic previews of tree meshes, raster
// through gg and vector through the arbor canvas Context.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/scottkirkwood/arbor/turtle"
)

// View picks the two world axes a preview shows.
type View int

const (
	Front View = iota // x across, y up
	Side              // z across, y up
	Top               // x across, z up
)

var viewNames = []string{"front", "side", "top"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView accepts the names printed by View.String.
func ParseView(s string) (View, error) {
	for i, n := range viewNames {
		if strings.EqualFold(s, n) {
			return View(i), nil
		}
	}
	return Front, fmt.Errorf("unknown view %q, want one of %s", s, strings.Join(viewNames, ", "))
}

// Segment is a projected line in a y-up plane.
type Segment struct {
	X0, Y0, X1, Y1 float64
	Width          float64
	Color          colorful.Color

	// Depth is the distance toward the viewer; larger is drawn later.
	Depth float64
}

// Project flattens every segment of m onto v, ordered back to front.
func Project(m *turtle.Mesh, v View) []Segment {
	segs := make([]Segment, 0, m.SegmentCount())
	for i := 0; i < m.SegmentCount(); i++ {
		a, b := m.Position(2*i), m.Position(2*i+1)
		var s Segment
		switch v {
		case Side:
			s = Segment{X0: a[2], Y0: a[1], X1: b[2], Y1: b[1], Depth: -(a[0] + b[0]) / 2}
		case Top:
			s = Segment{X0: a[0], Y0: -a[2], X1: b[0], Y1: -b[2], Depth: (a[1] + b[1]) / 2}
		default:
			s = Segment{X0: a[0], Y0: a[1], X1: b[0], Y1: b[1], Depth: (a[2] + b[2]) / 2}
		}
		s.Width = float64(m.Widths[2*i])
		s.Color = m.Color(2*i).BlendRgb(m.Color(2*i+1), 0.5).Clamped()
		segs = append(segs, s)
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth < segs[j].Depth })
	return segs
}

type limits struct {
	minX, minY, maxX, maxY float64
}

func bounds(segs []Segment) limits {
	l := limits{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, s := range segs {
		l.minX = math.Min(l.minX, math.Min(s.X0, s.X1))
		l.maxX = math.Max(l.maxX, math.Max(s.X0, s.X1))
		l.minY = math.Min(l.minY, math.Min(s.Y0, s.Y1))
		l.maxY = math.Max(l.maxY, math.Max(s.Y0, s.Y1))
	}
	return l
}

// Fit scales and centers segs to fill a width by height canvas less margin
// on every side, keeping the aspect ratio. Widths scale with the geometry.
// The returned scale is canvas units per world unit.
func Fit(segs []Segment, width, height, margin float64) ([]Segment, float64) {
	if len(segs) == 0 {
		return nil, 1
	}
	l := bounds(segs)
	spanX, spanY := l.maxX-l.minX, l.maxY-l.minY
	availX, availY := width-2*margin, height-2*margin
	scale := math.Inf(1)
	if spanX > 0 {
		scale = availX / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, availY/spanY)
	}
	if math.IsInf(scale, 0) || !(scale > 0) {
		scale = 1
	}
	// Center the drawing on the canvas.
	offX := (width - spanX*scale) / 2
	offY := (height - spanY*scale) / 2

	out := make([]Segment, len(segs))
	for i, s := range segs {
		s.X0 = offX + (s.X0-l.minX)*scale
		s.X1 = offX + (s.X1-l.minX)*scale
		s.Y0 = offY + (s.Y0-l.minY)*scale
		s.Y1 = offY + (s.Y1-l.minY)*scale
		s.Width *= scale
		out[i] = s
	}
	return out, scale
}
