package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitHexSeed(t *testing.T) {
	s, err := Init("ff")
	require.NoError(t, err)
	assert.Equal(t, int64(255), s.GetSeed())

	_, err = Init("not-hex")
	assert.Error(t, err)
}

func TestRandIsReproducible(t *testing.T) {
	a, b := NewSeed(42).Rand(), NewSeed(42).Rand()
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestDeriveSeed(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 100; i++ {
		v := DeriveSeed(7, i)
		assert.False(t, seen[v], "duplicate derived seed at %d", i)
		seen[v] = true
		assert.Equal(t, v, DeriveSeed(7, i))
	}
	assert.NotEqual(t, DeriveSeed(7, 0), DeriveSeed(8, 0))
	assert.Equal(t, NewSeed(7).Derive(3).GetSeed(), DeriveSeed(7, 3))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3.0, 0, 1))
	assert.Equal(t, 0.0, Clamp(-3.0, 1, 0))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 6, Clamp(100, 0, 6))
	assert.Equal(t, 0, Clamp(-1, 0, 6))
	assert.InDelta(t, 0.25, Lerp(0, 1, 0.25), 1e-12)
}
