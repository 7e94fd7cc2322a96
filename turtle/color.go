package turtle

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/lsystem"
)

// warm is the direction thin branches drift in, scaled by Options.WidthShift.
var warm = colorful.Color{R: 1, G: 0.8, B: 0.4}

// toward is how far along trunk→leaf the deepest branches get.
const toward = 0.3

// BranchColor is the color of an F segment at the given depth and width.
// Deeper and thinner branches move from the trunk color toward the leaf color
// and get lighter. The result is always inside [0,1]^3.
func BranchColor(g *lsystem.Grammar, depth int, width float64, opts Options) colorful.Color {
	maxDepth := opts.MaxRenderDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRenderDepth
	}
	trunk := g.TrunkColor.Clamped()
	target := trunk.BlendRgb(g.LeafColor.Clamped(), toward)

	t := float64(arbor.Clamp(depth, 0, maxDepth)) / float64(maxDepth)
	c := trunk.BlendRgb(target, arbor.Clamp(t, 0, 1))

	thin := 0.0
	if g.InitialWidth > 0 {
		thin = arbor.Clamp(1-width/g.InitialWidth, 0, 1)
	}
	d := thin * opts.WidthShift
	c = colorful.Color{R: c.R + d*warm.R, G: c.G + d*warm.G, B: c.B + d*warm.B}
	return safe(c)
}

// LeafBlend is the start color of a leaf segment: branch pulled toward leaf.
func LeafBlend(branch, leaf colorful.Color, weight float64) colorful.Color {
	return safe(branch.Clamped().BlendRgb(leaf.Clamped(), arbor.Clamp(weight, 0, 1)))
}

// safe clamps c and replaces non finite channels with 0.
func safe(c colorful.Color) colorful.Color {
	for _, v := range []*float64{&c.R, &c.G, &c.B} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	return c.Clamped()
}
