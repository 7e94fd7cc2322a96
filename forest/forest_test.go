package forest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/preset"
	"github.com/scottkirkwood/arbor/turtle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceKeepsDistance(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		placed := Place(30, 40, 5, 50, rand.New(rand.NewSource(seed)))
		for i := range placed {
			assert.True(t, arbor.Square(40).Contains(placed[i].Offset))
			for j := i + 1; j < len(placed); j++ {
				assert.GreaterOrEqual(t, placed[i].Offset.Dist(placed[j].Offset), 5.0-1e-9)
			}
		}
	}
}

func TestPlaceDropsWhenCrowded(t *testing.T) {
	// A 10x10 square fits only a handful of trees 6 apart.
	placed := Place(50, 10, 6, 50, rand.New(rand.NewSource(1)))
	assert.Less(t, len(placed), 50)
	assert.NotEmpty(t, placed)
	for i := 1; i < len(placed); i++ {
		assert.Greater(t, placed[i].Index, placed[i-1].Index)
	}
}

func TestPlaceEdges(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		area, dist  float64
		maxAttempts int
		want        int
	}{
		{"none", 0, 10, 1, 50, 0},
		{"negative count", -1, 10, 1, 5, 0},
		{"very negative count", -1000, 10, 1, 5, 0},
		{"no spacing, default attempts", 5, 10, 0, 0, 5},
		{"zero area", 3, 0, 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placed := Place(tt.count, tt.area, tt.dist, tt.maxAttempts, rand.New(rand.NewSource(1)))
			require.Len(t, placed, tt.want)
			if tt.area == 0 && tt.want > 0 {
				assert.Equal(t, arbor.XZ{}, placed[0].Offset)
			}
		})
	}
}

func TestTreeCount(t *testing.T) {
	c := Config{AreaSize: 50, Density: 2}
	assert.Equal(t, 50, c.TreeCount())
	c.Count = 7
	assert.Equal(t, 7, c.TreeCount())
	assert.Equal(t, 0, Config{AreaSize: 50}.TreeCount())
}

func testConfig(t *testing.T) Config {
	t.Helper()
	ps, err := preset.Parse("bush,fractal,palm")
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Count = 8
	cfg.Presets = ps
	cfg.Seed = 42
	return cfg
}

func TestRender(t *testing.T) {
	cfg := testConfig(t)
	f, err := Render(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, f.Mesh.Check())
	assert.Equal(t, 8, f.Requested)
	require.NotEmpty(t, f.Trees)

	total := 0
	var stats turtle.Stats
	for i, tr := range f.Trees {
		assert.Equal(t, total, tr.VertexOffset)
		total += tr.Vertices
		stats.Add(tr.Stats)
		assert.Contains(t, []string{"bush", "fractal", "palm"}, tr.Preset)
		assert.True(t, tr.Scale >= 0.8 && tr.Scale <= 1.2, "scale %v", tr.Scale)

		// Each tree's trunk starts at its placement on the ground.
		m := f.TreeMesh(i)
		require.NoError(t, m.Check())
		require.False(t, m.Empty())
		root := m.Position(0)
		assert.InDelta(t, tr.Offset.X, root[0], 1e-4)
		assert.InDelta(t, 0, root[1], 1e-4)
		assert.InDelta(t, tr.Offset.Z, root[2], 1e-4)
	}
	assert.Equal(t, total, f.Mesh.VertexCount())
	assert.Equal(t, stats.Segments, f.Mesh.Stats.Segments)
	assert.Equal(t, stats.Leaves, f.Mesh.Stats.Leaves)
	assert.InDelta(t, stats.Height, f.Mesh.Stats.Height, 1e-9)
}

func TestRenderIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers = 1
	a, err := Render(context.Background(), cfg)
	require.NoError(t, err)
	cfg.Workers = 8
	b, err := Render(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg.Seed++
	c, err := Render(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Mesh.Positions, c.Mesh.Positions)
}

func TestRenderBadConfig(t *testing.T) {
	for _, mod := range []func(*Config){
		func(c *Config) { c.AreaSize = 0 },
		func(c *Config) { c.Count = -1 },
		func(c *Config) { c.MinDistance = -2 },
		func(c *Config) { c.MinScale, c.MaxScale = 2, 1 },
	} {
		cfg := DefaultConfig()
		mod(&cfg)
		_, err := Render(context.Background(), cfg)
		assert.Error(t, err)
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, testConfig(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderEmpty(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 0
	f, err := Render(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, f.Trees)
	assert.True(t, f.Mesh.Empty())
	assert.NoError(t, f.Mesh.Check())
}

func TestNearest(t *testing.T) {
	f := &Forest{Trees: []Tree{
		{Placement: Placement{Index: 0, Offset: arbor.XZ{X: 0, Z: 0}}},
		{Placement: Placement{Index: 1, Offset: arbor.XZ{X: 10, Z: 0}}},
		{Placement: Placement{Index: 2, Offset: arbor.XZ{X: 4, Z: 4}}},
	}}
	tr, ok := f.Nearest(arbor.XZ{X: 3, Z: 3}, 5)
	require.True(t, ok)
	assert.Equal(t, 2, tr.Index)

	tr, ok = f.Nearest(arbor.XZ{X: 9, Z: 1}, 5)
	require.True(t, ok)
	assert.Equal(t, 1, tr.Index)

	_, ok = f.Nearest(arbor.XZ{X: 20, Z: 20}, 5)
	assert.False(t, ok)
}
