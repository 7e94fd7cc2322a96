package preset

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/scottkirkwood/arbor/lsystem"
	"github.com/scottkirkwood/arbor/turtle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreValid(t *testing.T) {
	require.Len(t, All(), len(Names()))
	for _, p := range All() {
		t.Run(p.Name(), func(t *testing.T) {
			require.NoError(t, p.Spec.Validate())
			assert.True(t, lsystem.Balanced(p.Spec.Axiom))
			for k, r := range p.Spec.Rules {
				for _, alt := range r.Alternatives() {
					assert.True(t, lsystem.Balanced(alt), "%c: %s", k, alt)
				}
			}
			assert.Greater(t, p.Generations, 0)
		})
	}
}

func TestPresetsGrow(t *testing.T) {
	for _, p := range All() {
		t.Run(p.Name(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			g, err := p.Grammar(rng, 1)
			require.NoError(t, err)
			instr := lsystem.Expand(g, p.Generations, rng, lsystem.DefaultOptions())
			require.True(t, lsystem.Balanced(instr))
			m := turtle.Interpret(instr, g, rng, turtle.DefaultOptions())
			require.NoError(t, m.Check())
			assert.Greater(t, m.Stats.Segments, 0)
			assert.Greater(t, m.Stats.Height, 0.0)
		})
	}
}

func TestGenerationCounts(t *testing.T) {
	want := map[string]int{"pine": 4, "bush": 2, "oak": 3, "willow": 3, "palm": 3}
	for name, n := range want {
		p, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, n, p.Generations, name)
	}
}

func TestGrammarScales(t *testing.T) {
	p, err := Lookup("oak")
	require.NoError(t, err)
	base, err := p.Grammar(rand.New(rand.NewSource(1)), 1)
	require.NoError(t, err)
	big, err := p.Grammar(rand.New(rand.NewSource(1)), 2)
	require.NoError(t, err)
	assert.InDelta(t, 2*base.InitialLength, big.InitialLength, 1e-12)
	assert.InDelta(t, 2*base.InitialWidth, big.InitialWidth, 1e-12)

	bush, err := Lookup("bush")
	require.NoError(t, err)
	g, err := bush.Grammar(rand.New(rand.NewSource(1)), 1)
	require.NoError(t, err)
	assert.InDelta(t, bush.Spec.InitialLength*0.6, g.InitialLength, 1e-12)
}

func TestGrammarDoesNotShareRules(t *testing.T) {
	p, err := Lookup("pine")
	require.NoError(t, err)
	before := len(p.Spec.Rules['X'].Alternatives())
	_, err = p.Grammar(rand.New(rand.NewSource(1)), 1)
	require.NoError(t, err)
	q, _ := Lookup("pine")
	assert.Len(t, q.Spec.Rules['X'].Alternatives(), before)
}

func TestLookup(t *testing.T) {
	p, err := Lookup(" Birch ")
	require.NoError(t, err)
	assert.Equal(t, "birch", p.Name())

	_, err = Lookup("baobab")
	assert.True(t, errors.Is(err, ErrUnknownPreset))

	_, err = Lookup(Default)
	assert.NoError(t, err)
}

func TestParse(t *testing.T) {
	ps, err := Parse("oak, pine,,bush")
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, "pine", ps[1].Name())

	_, err = Parse("oak,cactus")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "fern.toml", `
axiom = "X"
angle = 25
angle_jitter = 2
scale = 0.8
generations = 4
trunk_color = "#8c4513"
leaf_color_min = "#207020"
leaf_color_max = "#40a040"

[rules]
X = ["F[+X][-X]FX", "F[+X]FX"]
F = "FF"
`)
	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fern", p.Name())
	assert.Equal(t, 4, p.Generations)
	assert.Equal(t, lsystem.Choice{"F[+X][-X]FX", "F[+X]FX"}, p.Spec.Rules['X'])
	assert.Equal(t, lsystem.Fixed("FF"), p.Spec.Rules['F'])
	assert.InDelta(t, 0.436332, p.Spec.Angle, 1e-6)
	assert.IsType(t, lsystem.Range{}, p.Spec.Leaf)

	g, err := p.Grammar(rand.New(rand.NewSource(1)), 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.549, g.TrunkColor.R, 1e-3)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "shrub.yml", `
name: shrub
axiom: FX
angle: 30
scale: 0.6
leaf_color: "#30a030"
rules:
  X: "[+FX][-FX]"
`)
	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shrub", p.Name())
	assert.Equal(t, 3, p.Generations)
	assert.IsType(t, lsystem.Solid{}, p.Spec.Leaf)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name, file, body string
		invalid          bool
	}{
		{"extension", "x.json", `{}`, false},
		{"unknown field", "x.toml", "axiom = \"F\"\nscale = 0.5\nbogus = 1\n", false},
		{"bad toml", "x.toml", "axiom = ", false},
		{"long key", "x.toml", "axiom = \"F\"\nscale = 0.5\n[rules]\nXY = \"F\"\n", true},
		{"bad alternative", "x.toml", "axiom = \"F\"\nscale = 0.5\n[rules]\nX = [1, 2]\n", true},
		{"unbalanced rule", "x.yaml", "axiom: X\nscale: 0.5\nrules:\n  X: \"F[+X\"\n", true},
		{"scale", "x.yaml", "axiom: F\nscale: 1.5\n", true},
		{"empty axiom", "x.yaml", "scale: 0.5\n", true},
		{"bad color", "x.yaml", "axiom: F\nscale: 0.5\ntrunk_color: brown\n", true},
		{"both leaf forms", "x.yaml", "axiom: F\nscale: 0.5\nleaf_color: \"#00ff00\"\nleaf_color_min: \"#00ff00\"\nleaf_color_max: \"#00ff00\"\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, lsystem.ErrInvalidGrammar), err.Error())
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
