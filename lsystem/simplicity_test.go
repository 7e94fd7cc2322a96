package lsystem

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTooSimple(t *testing.T) {
	sp := DefaultSimplicity()
	tests := []struct {
		s    string
		want bool
	}{
		{"", false},
		{"F", true},
		{"FFFF", true},
		{"X", false},
		{"F+F-F&F", true}, // short with more than three F's
		{strings.Repeat("F", 12) + "[+]", true},
		{strings.Repeat("F", 12) + "[+][-][&][^]", false},
		{strings.Repeat("F", 12) + "+-&^\\/" + strings.Repeat("X", 10), false},
		{"F[+FX][-FX]X", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sp.TooSimple(Count(tt.s)), tt.s)
	}
}

func TestCorrectGuaranteesInjections(t *testing.T) {
	sp := DefaultSimplicity()
	sp.InjectRate = 0
	in := strings.Repeat("F", 30)
	out := sp.Correct(in, rand.New(rand.NewSource(4)))

	st := Count(out)
	assert.Equal(t, 30, strings.Count(out, "F")-countInjectedF(out, sp))
	assert.Equal(t, 3*2, st.Branches, "exactly the minimum of three patterns")
	assert.True(t, Balanced(out))
	assert.NotEqual(t, st.Forward, st.Length)
}

func TestCorrectShortString(t *testing.T) {
	sp := DefaultSimplicity()
	sp.InjectRate = 0
	out := sp.Correct("FF", rand.New(rand.NewSource(4)))
	assert.Equal(t, 2, Count(out).Branches, out)
}

func TestCorrectWithoutForward(t *testing.T) {
	sp := DefaultSimplicity()
	assert.Equal(t, "+-X", sp.Correct("+-X", rand.New(rand.NewSource(1))))
	sp.Patterns = nil
	assert.Equal(t, "FFF", sp.Correct("FFF", rand.New(rand.NewSource(1))))
}

func TestCorrectRate(t *testing.T) {
	sp := DefaultSimplicity()
	sp.InjectRate = 1
	out := sp.Correct("FFFF", rand.New(rand.NewSource(1)))
	assert.Equal(t, 8, Count(out).Branches)
}

// countInjectedF counts the F's that came from patterns rather than the input.
func countInjectedF(s string, sp Simplicity) int {
	n := 0
	for _, p := range sp.Patterns {
		n += strings.Count(s, p) * strings.Count(p, "F")
	}
	return n
}
