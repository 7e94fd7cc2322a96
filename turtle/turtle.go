// Package turtle interprets L-system instruction strings as 3D turtle
// commands and emits a line mesh of branches and leaves.
package turtle

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/lsystem"
)

// DefaultMaxRenderDepth is the branch depth at which colors stop changing.
const DefaultMaxRenderDepth = 6

// Options tune interpretation. Start from DefaultOptions.
type Options struct {
	Origin mgl64.Vec3

	MaxRenderDepth int

	// After StraightRun consecutive F's with no turn or branch, each further
	// F tips its heading by at most RunJitter radians in a random direction.
	StraightRun int
	RunJitter   float64

	// Leaves point up to LeafSpread radians off the heading, are LeafScale
	// times the current length, and start LeafBlend of the way to the leaf color.
	LeafSpread float64
	LeafScale  float64
	LeafBlend  float64

	// WidthShift is how far the thinnest branches drift toward warm light colors.
	WidthShift float64
}

// DefaultOptions returns the tuned interpretation settings.
func DefaultOptions() Options {
	return Options{
		MaxRenderDepth: DefaultMaxRenderDepth,
		StraightRun:    3,
		RunJitter:      mgl64.DegToRad(3),
		LeafSpread:     mgl64.DegToRad(60),
		LeafScale:      0.5,
		LeafBlend:      0.6,
		WidthShift:     0.15,
	}
}

type state struct {
	pos    mgl64.Vec3
	frame  frame
	length float64
	width  float64
	depth  int
}

type interpreter struct {
	g     *lsystem.Grammar
	rng   *rand.Rand
	opts  Options
	init  state
	cur   state
	stack []state
	run   int
	mesh  *Mesh
}

// Interpret walks instr and returns the branches and leaves it draws.
//
// Unknown symbols are ignored. A ] with nothing to pop resets the turtle to
// its initial state and is logged. A nil rng disables the random leaf and
// straight-run deviations. The returned mesh may be empty but its buffers are
// always parallel and finite.
func Interpret(instr string, g *lsystem.Grammar, rng *rand.Rand, opts Options) *Mesh {
	it := &interpreter{
		g:    g,
		rng:  rng,
		opts: opts,
		init: state{
			pos:    opts.Origin,
			frame:  initialFrame(),
			length: g.InitialLength,
			width:  g.InitialWidth,
		},
		mesh: &Mesh{Stats: Stats{Height: opts.Origin[1]}},
	}
	it.cur = it.init
	log := arbor.Logger().With("grammar", g.Name)

	for i := 0; i < len(instr); i++ {
		switch c := instr[i]; c {
		case lsystem.Forward:
			it.forward()
		case lsystem.Leaf:
			it.leaf()
		case lsystem.YawLeft:
			it.turn(it.cur.frame.yaw(g.Angle))
		case lsystem.YawRight:
			it.turn(it.cur.frame.yaw(-g.Angle))
		case lsystem.PitchDn:
			it.turn(it.cur.frame.pitch(g.Angle))
		case lsystem.PitchUp:
			it.turn(it.cur.frame.pitch(-g.Angle))
		case lsystem.RollLeft:
			it.turn(it.cur.frame.roll(g.Angle))
		case lsystem.RollRt:
			it.turn(it.cur.frame.roll(-g.Angle))
		case lsystem.Push:
			it.stack = append(it.stack, it.cur)
			it.cur.length *= g.Scale
			it.cur.width *= g.WidthReduction
			it.cur.depth++
			if it.cur.depth > it.mesh.Stats.MaxDepth {
				it.mesh.Stats.MaxDepth = it.cur.depth
			}
			it.run = 0
		case lsystem.Pop:
			if len(it.stack) == 0 {
				log.Warn("pop on empty turtle stack, resetting", "at", i)
				it.cur = it.init
				it.mesh.Stats.Recovered++
			} else {
				it.cur = it.stack[len(it.stack)-1]
				it.stack = it.stack[:len(it.stack)-1]
			}
			it.run = 0
		}
	}
	log.Debug("interpreted", "segments", it.mesh.Stats.Segments, "leaves", it.mesh.Stats.Leaves,
		"height", it.mesh.Stats.Height, "depth", it.mesh.Stats.MaxDepth)
	return it.mesh
}

func (it *interpreter) turn(f frame) {
	it.cur.frame = f
	it.run = 0
}

// forward draws one branch segment and moves the turtle to its end.
func (it *interpreter) forward() {
	it.run++
	if it.rng != nil && it.opts.StraightRun > 0 && it.run > it.opts.StraightRun && it.opts.RunJitter > 0 {
		it.cur.frame = it.cur.frame.tilt(it.rng.Float64()*2*math.Pi, it.spread(it.opts.RunJitter))
	}
	start := it.cur.pos
	end := start.Add(it.cur.frame.heading().Mul(it.cur.length))
	if !finite(end) {
		return
	}
	col := BranchColor(it.g, it.cur.depth, it.cur.width, it.opts)
	it.mesh.addSegment(start, end, col, col, it.cur.width)
	it.mesh.Stats.Segments++
	it.cur.pos = end
}

// leaf draws a short segment off the heading; the turtle does not move.
func (it *interpreter) leaf() {
	f := it.cur.frame
	if it.rng != nil && it.opts.LeafSpread > 0 {
		f = f.pitch(it.spread(it.opts.LeafSpread))
		if it.rng.Intn(2) == 0 {
			f = f.yaw(it.spread(it.opts.LeafSpread))
		}
	}
	scale := it.opts.LeafScale
	if scale <= 0 {
		scale = DefaultOptions().LeafScale
	}
	start := it.cur.pos
	end := start.Add(f.heading().Mul(it.cur.length * scale))
	if !finite(end) {
		return
	}
	branch := BranchColor(it.g, it.cur.depth, it.cur.width, it.opts)
	leafCol := safe(it.g.LeafColor)
	it.mesh.addSegment(start, end, LeafBlend(branch, leafCol, it.opts.LeafBlend), leafCol, it.cur.width)
	it.mesh.Stats.Leaves++
}

// spread draws uniformly from [-m, m].
func (it *interpreter) spread(m float64) float64 {
	return (it.rng.Float64()*2 - 1) * math.Abs(m)
}
