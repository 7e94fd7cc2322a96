package turtle

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Mesh is line topology: vertices 2i and 2i+1 are the ends of segment i.
// Positions, Colors and Normals hold three floats per vertex, Widths one.
type Mesh struct {
	Positions []float32
	Colors    []float32
	Normals   []float32
	Widths    []float32

	Stats Stats
}

// Stats summarises a tree.
type Stats struct {
	Segments  int     // F segments drawn
	Leaves    int     // X segments drawn
	Height    float64 // highest Y reached by any vertex
	MaxDepth  int     // deepest branch nesting seen
	Recovered int     // pops on an empty stack that were reset
}

// Add accumulates o into s, keeping the larger Height and MaxDepth.
func (s *Stats) Add(o Stats) {
	s.Segments += o.Segments
	s.Leaves += o.Leaves
	s.Recovered += o.Recovered
	s.Height = math.Max(s.Height, o.Height)
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
}

// VertexCount is the number of vertices in m.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// SegmentCount is the number of line segments in m.
func (m *Mesh) SegmentCount() int {
	return m.VertexCount() / 2
}

// Empty returns true if nothing was drawn.
func (m *Mesh) Empty() bool {
	return len(m.Positions) == 0
}

// Check verifies the buffers are parallel and hold paired vertices.
func (m *Mesh) Check() error {
	n := m.VertexCount()
	switch {
	case len(m.Positions)%3 != 0:
		return fmt.Errorf("positions length %d not a multiple of 3", len(m.Positions))
	case len(m.Colors) != 3*n:
		return fmt.Errorf("%d colors for %d vertices", len(m.Colors)/3, n)
	case len(m.Normals) != 3*n:
		return fmt.Errorf("%d normals for %d vertices", len(m.Normals)/3, n)
	case len(m.Widths) != n:
		return fmt.Errorf("%d widths for %d vertices", len(m.Widths), n)
	case n%2 != 0:
		return fmt.Errorf("odd vertex count %d for line topology", n)
	}
	return nil
}

func (m *Mesh) addVertex(p mgl64.Vec3, c colorful.Color, n mgl64.Vec3, w float64) {
	m.Positions = append(m.Positions, float32(p[0]), float32(p[1]), float32(p[2]))
	m.Colors = append(m.Colors, float32(c.R), float32(c.G), float32(c.B))
	m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	m.Widths = append(m.Widths, float32(w))
	if p[1] > m.Stats.Height {
		m.Stats.Height = p[1]
	}
}

// addSegment appends one start/end pair sharing a normal and width.
func (m *Mesh) addSegment(a, b mgl64.Vec3, ca, cb colorful.Color, w float64) {
	n := Normal(b.Sub(a))
	m.addVertex(a, ca, n, w)
	m.addVertex(b, cb, n, w)
}

// Position returns vertex i.
func (m *Mesh) Position(i int) mgl64.Vec3 {
	return mgl64.Vec3{float64(m.Positions[3*i]), float64(m.Positions[3*i+1]), float64(m.Positions[3*i+2])}
}

// Color returns the color of vertex i.
func (m *Mesh) Color(i int) colorful.Color {
	return colorful.Color{R: float64(m.Colors[3*i]), G: float64(m.Colors[3*i+1]), B: float64(m.Colors[3*i+2])}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl64.Vec3 {
	return mgl64.Vec3{float64(m.Normals[3*i]), float64(m.Normals[3*i+1]), float64(m.Normals[3*i+2])}
}

// Translate moves every vertex by d.
func (m *Mesh) Translate(d mgl64.Vec3) {
	for i := 0; i+2 < len(m.Positions); i += 3 {
		m.Positions[i] += float32(d[0])
		m.Positions[i+1] += float32(d[1])
		m.Positions[i+2] += float32(d[2])
	}
	if !m.Empty() {
		m.Stats.Height += d[1]
	}
}

// Append copies o onto the end of m and returns the vertex offset o starts at.
func (m *Mesh) Append(o *Mesh) int {
	offset := m.VertexCount()
	m.Positions = append(m.Positions, o.Positions...)
	m.Colors = append(m.Colors, o.Colors...)
	m.Normals = append(m.Normals, o.Normals...)
	m.Widths = append(m.Widths, o.Widths...)
	if offset == 0 {
		m.Stats.Height = o.Stats.Height
	}
	m.Stats.Add(o.Stats)
	return offset
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{}
	c.Append(m)
	c.Stats = m.Stats
	return c
}

// Bounds returns the axis aligned box holding every vertex.
// An empty mesh returns two zero vectors.
func (m *Mesh) Bounds() (min, max mgl64.Vec3) {
	if m.Empty() {
		return
	}
	min = m.Position(0)
	max = min
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], p[k])
			max[k] = math.Max(max[k], p[k])
		}
	}
	return min, max
}

// RGBA returns the colors with an opaque alpha channel, four floats per vertex.
func (m *Mesh) RGBA() []float32 {
	out := make([]float32, 0, m.VertexCount()*4)
	for i := 0; i+2 < len(m.Colors); i += 3 {
		out = append(out, m.Colors[i], m.Colors[i+1], m.Colors[i+2], 1)
	}
	return out
}

// Interleaved packs position, color and normal per vertex (nine floats),
// the layout most vertex buffer APIs want.
func (m *Mesh) Interleaved() []float32 {
	n := m.VertexCount()
	out := make([]float32, 0, n*9)
	for i := 0; i < n; i++ {
		out = append(out, m.Positions[3*i:3*i+3]...)
		out = append(out, m.Colors[3*i:3*i+3]...)
		out = append(out, m.Normals[3*i:3*i+3]...)
	}
	return out
}
