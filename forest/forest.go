package forest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/lsystem"
	"github.com/scottkirkwood/arbor/preset"
	"github.com/scottkirkwood/arbor/turtle"
	"golang.org/x/sync/errgroup"
)

// Config describes a forest. Start from DefaultConfig.
type Config struct {
	// Count is the number of trees requested. When zero, Density trees
	// per 100 square units of area are requested instead.
	Count   int
	Density float64

	AreaSize    float64
	MinDistance float64
	MaxAttempts int

	// Presets are the families trees are drawn from uniformly.
	// Empty means every registered family.
	Presets []preset.Preset

	// MinScale and MaxScale bound the per-tree size variation.
	MinScale, MaxScale float64

	Seed    int64
	Workers int

	Expand lsystem.Options
	Turtle turtle.Options
}

// DefaultConfig returns a 20 tree forest on a 40 unit square.
func DefaultConfig() Config {
	return Config{
		Count:       20,
		AreaSize:    40,
		MinDistance: 3,
		MaxAttempts: DefaultMaxAttempts,
		MinScale:    0.8,
		MaxScale:    1.2,
		Expand:      lsystem.DefaultOptions(),
		Turtle:      turtle.DefaultOptions(),
	}
}

// TreeCount is the number of trees requested by c.
func (c Config) TreeCount() int {
	if c.Count > 0 || c.Density <= 0 {
		return c.Count
	}
	return int(c.AreaSize * c.AreaSize * c.Density * 0.01)
}

func (c Config) validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("negative tree count %d", c.Count)
	case math.IsNaN(c.Density) || c.Density < 0:
		return fmt.Errorf("bad density %v", c.Density)
	case !(c.AreaSize > 0) || math.IsInf(c.AreaSize, 0):
		return fmt.Errorf("area size %v must be positive", c.AreaSize)
	case math.IsNaN(c.MinDistance) || c.MinDistance < 0:
		return fmt.Errorf("bad min distance %v", c.MinDistance)
	case c.MinScale < 0 || c.MaxScale < c.MinScale:
		return fmt.Errorf("bad scale range [%v, %v]", c.MinScale, c.MaxScale)
	}
	return nil
}

// Tree is one placed tree and where its vertices sit in the forest mesh.
type Tree struct {
	Placement
	Preset string
	Scale  float64

	// VertexOffset is the first vertex of this tree in Forest.Mesh.
	VertexOffset int
	Vertices     int

	Stats turtle.Stats
}

// Forest is the result of Render.
type Forest struct {
	Requested int
	Trees     []Tree
	Mesh      *turtle.Mesh
}

// Render places the trees of cfg and grows each one on a worker pool.
//
// Tree i draws from its own generator seeded by arbor.NewSeed(cfg.Seed).Derive(i),
// so the output does not depend on Workers or scheduling. Each tree is
// translated to its placement before being appended to Mesh. Only a bad
// cfg or ctx being cancelled return an error.
func Render(ctx context.Context, cfg Config) (*Forest, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	presets := cfg.Presets
	if len(presets) == 0 {
		presets = preset.All()
	}
	if cfg.MaxScale == 0 {
		cfg.MinScale, cfg.MaxScale = 1, 1
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	count := cfg.TreeCount()
	placed := Place(count, cfg.AreaSize, cfg.MinDistance, cfg.MaxAttempts, rand.New(rand.NewSource(cfg.Seed)))
	log := arbor.Logger()
	log.Info("placed trees", "placed", len(placed), "requested", count, "area", cfg.AreaSize)

	trees := make([]Tree, len(placed))
	meshes := make([]*turtle.Mesh, len(placed))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, p := range placed {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, m, err := grow(p, presets, cfg)
			if err != nil {
				return fmt.Errorf("tree %d: %w", p.Index, err)
			}
			trees[i], meshes[i] = t, m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	f := &Forest{Requested: count, Trees: trees, Mesh: &turtle.Mesh{}}
	for i, m := range meshes {
		f.Trees[i].VertexOffset = f.Mesh.Append(m)
		f.Trees[i].Vertices = m.VertexCount()
		log.Debug("tree", "index", trees[i].Index, "preset", trees[i].Preset,
			"x", trees[i].Offset.X, "z", trees[i].Offset.Z,
			"segments", m.SegmentCount(), "height", m.Stats.Height)
	}
	if err := f.Mesh.Check(); err != nil {
		return nil, fmt.Errorf("assembled forest mesh: %w", err)
	}
	return f, nil
}

// grow runs one tree's pipeline in local space and moves it to p.
func grow(p Placement, presets []preset.Preset, cfg Config) (Tree, *turtle.Mesh, error) {
	rng := arbor.NewSeed(cfg.Seed).Derive(p.Index).Rand()
	pr := presets[rng.Intn(len(presets))]
	scale := arbor.Lerp(cfg.MinScale, cfg.MaxScale, rng.Float64())

	g, err := pr.Grammar(rng, scale)
	if err != nil {
		return Tree{}, nil, err
	}
	instr := lsystem.Expand(g, pr.Generations, rng, cfg.Expand)
	opts := cfg.Turtle
	opts.Origin = mgl64.Vec3{}
	m := turtle.Interpret(instr, g, rng, opts)
	m.Translate(mgl64.Vec3{p.Offset.X, 0, p.Offset.Z})

	return Tree{Placement: p, Preset: pr.Name(), Scale: scale, Stats: m.Stats}, m, nil
}

// Nearest returns the tree whose placement is closest to pos, if one lies
// strictly within radius.
func (f *Forest) Nearest(pos arbor.XZ, radius float64) (Tree, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, t := range f.Trees {
		if d := t.Offset.Dist(pos); d < radius && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Tree{}, false
	}
	return f.Trees[best], true
}

// TreeMesh returns the part of Mesh that belongs to Trees[i] as a standalone mesh.
func (f *Forest) TreeMesh(i int) *turtle.Mesh {
	t := f.Trees[i]
	lo, hi := t.VertexOffset, t.VertexOffset+t.Vertices
	return &turtle.Mesh{
		Positions: append([]float32(nil), f.Mesh.Positions[3*lo:3*hi]...),
		Colors:    append([]float32(nil), f.Mesh.Colors[3*lo:3*hi]...),
		Normals:   append([]float32(nil), f.Mesh.Normals[3*lo:3*hi]...),
		Widths:    append([]float32(nil), f.Mesh.Widths[lo:hi]...),
		Stats:     t.Stats,
	}
}
