package turtle

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/scottkirkwood/arbor/lsystem"
	"github.com/stretchr/testify/assert"
)

func inUnitCube(t *testing.T, c colorful.Color) {
	t.Helper()
	for _, v := range []float64{c.R, c.G, c.B} {
		assert.True(t, v >= 0 && v <= 1, "color %v out of range", c)
	}
}

func TestBranchColorTrunk(t *testing.T) {
	g := &lsystem.Grammar{
		InitialWidth: 0.1,
		TrunkColor:   colorful.Color{R: 0.5, G: 0.25, B: 0.1},
		LeafColor:    colorful.Color{G: 1},
	}
	c := BranchColor(g, 0, g.InitialWidth, DefaultOptions())
	assert.InDelta(t, 0.5, c.R, 1e-12)
	assert.InDelta(t, 0.25, c.G, 1e-12)
	assert.InDelta(t, 0.1, c.B, 1e-12)
}

func TestBranchColorDepthSaturates(t *testing.T) {
	g := &lsystem.Grammar{
		InitialWidth: 0.1,
		TrunkColor:   colorful.Color{R: 0.5},
		LeafColor:    colorful.Color{G: 1},
	}
	opts := DefaultOptions()
	opts.WidthShift = 0
	deep := BranchColor(g, opts.MaxRenderDepth, g.InitialWidth, opts)
	deeper := BranchColor(g, 1000, g.InitialWidth, opts)
	assert.Equal(t, deep, deeper)
	assert.InDelta(t, 0.5*(1-toward), deep.R, 1e-12)
	assert.InDelta(t, toward, deep.G, 1e-12)

	mid := BranchColor(g, opts.MaxRenderDepth/2, g.InitialWidth, opts)
	assert.Greater(t, mid.G, 0.0)
	assert.Less(t, mid.G, deep.G)
	assert.Equal(t, BranchColor(g, 0, g.InitialWidth, opts), BranchColor(g, -5, g.InitialWidth, opts))
}

func TestBranchColorThinIsLighter(t *testing.T) {
	g := &lsystem.Grammar{
		InitialWidth: 0.1,
		TrunkColor:   colorful.Color{R: 0.3, G: 0.2, B: 0.1},
		LeafColor:    colorful.Color{G: 0.6},
	}
	opts := DefaultOptions()
	thick := BranchColor(g, 2, 0.1, opts)
	thin := BranchColor(g, 2, 0.01, opts)
	assert.Greater(t, thin.R, thick.R)
	assert.Greater(t, thin.G, thick.G)
}

func TestBranchColorClamps(t *testing.T) {
	tests := []struct {
		name  string
		g     *lsystem.Grammar
		depth int
		width float64
		shift float64
	}{
		{"white into white", &lsystem.Grammar{InitialWidth: 1, TrunkColor: colorful.Color{R: 1, G: 1, B: 1}, LeafColor: colorful.Color{R: 1, G: 1, B: 1}}, 10000, 0, 5},
		{"out of range input", &lsystem.Grammar{InitialWidth: 1, TrunkColor: colorful.Color{R: 3, G: -2, B: 9}, LeafColor: colorful.Color{R: -1, G: 4}}, 50, -3, 1},
		{"zero width grammar", &lsystem.Grammar{TrunkColor: colorful.Color{R: 0.5}}, 3, 0.1, 0.15},
		{"width above initial", &lsystem.Grammar{InitialWidth: 0.1, TrunkColor: colorful.Color{R: 0.5}}, 0, 10, 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.WidthShift = tt.shift
			inUnitCube(t, BranchColor(tt.g, tt.depth, tt.width, opts))
		})
	}
	inUnitCube(t, LeafBlend(colorful.Color{R: 2}, colorful.Color{G: -1}, 7))
}

func TestLeafBlend(t *testing.T) {
	c := LeafBlend(colorful.Color{R: 1}, colorful.Color{G: 1}, 0.6)
	assert.InDelta(t, 0.4, c.R, 1e-12)
	assert.InDelta(t, 0.6, c.G, 1e-12)
}
