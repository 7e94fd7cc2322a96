package lsystem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomize(t *testing.T) {
	rules := map[byte]Rule{
		'F': Fixed("FF[+F][-F]"),
		'X': Fixed("F[&X]X"),
	}
	out := Randomize(rules, 0.5, rand.New(rand.NewSource(3)))
	require.Len(t, out, 2)

	f := out['F'].Alternatives()
	assert.Len(t, f, 3, "original, swapped, turned")
	assert.Equal(t, "FF[+F][-F]", f[0])
	assert.Equal(t, len("FF[+F][-F]"), len(f[1]))
	x := out['X'].Alternatives()
	assert.Len(t, x, 2, "no +/- pair to swap")

	for _, r := range out {
		for _, alt := range r.Alternatives() {
			assert.True(t, Balanced(alt), alt)
			assert.Contains(t, alt, "F")
		}
	}
	assert.Equal(t, Fixed("FF[+F][-F]"), rules['F'], "input untouched")
}

func TestRandomizeZeroAmount(t *testing.T) {
	rules := map[byte]Rule{'F': Fixed("F+F")}
	out := Randomize(rules, 0, rand.New(rand.NewSource(3)))
	assert.Equal(t, rules, out)
}

func TestRandomizeAddTurnsAll(t *testing.T) {
	rules := map[byte]Rule{'A': Choice{"FF", "F"}}
	out := Randomize(rules, 1, rand.New(rand.NewSource(3)))
	alts := out['A'].Alternatives()
	require.Len(t, alts, 4)
	assert.Equal(t, 4, len(alts[1]), "a turn before each F")
	assert.Equal(t, 2, len(alts[3]))
}
