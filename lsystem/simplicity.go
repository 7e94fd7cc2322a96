package lsystem

import (
	"math/rand"
	"strings"
)

// Simplicity decides when an expansion degenerated into an unbranched line
// and how to force branching back into it. The thresholds are tuning knobs.
type Simplicity struct {
	Disabled bool

	// A string with more than ManyForward F's but fewer than FewBranches
	// branch symbols and fewer than FewRotations rotations is too simple.
	ManyForward  int
	FewBranches  int
	FewRotations int

	// So is a string shorter than ShortLength holding more than ShortForward F's.
	ShortLength  int
	ShortForward int

	// Correct inserts one of Patterns after each F with InjectRate chance,
	// and at least MinInjections times on strings longer than MinInjectLength.
	// Shorter strings always get at least one.
	InjectRate      float64
	MinInjections   int
	MinInjectLength int
	Patterns        []string
}

// DefaultSimplicity returns the tuned thresholds.
func DefaultSimplicity() Simplicity {
	return Simplicity{
		ManyForward:     10,
		FewBranches:     4,
		FewRotations:    4,
		ShortLength:     20,
		ShortForward:    3,
		InjectRate:      0.25,
		MinInjections:   3,
		MinInjectLength: 10,
		Patterns:        []string{"[+FX]", "[-FX]", "[/FX]", "[\\FX]", "[&F]", "[^F]"},
	}
}

// TooSimple classifies an instruction string from its Stats.
func (sp Simplicity) TooSimple(st Stats) bool {
	switch {
	case st.Length == 0:
		return false
	case st.Forward == st.Length:
		return true
	case st.Forward > sp.ManyForward && st.Branches < sp.FewBranches && st.Rotations < sp.FewRotations:
		return true
	case st.Length < sp.ShortLength && st.Forward > sp.ShortForward:
		return true
	}
	return false
}

// Correct inserts random branch patterns after some of the F's in s.
// Strings without any F, or without patterns configured, are returned as is.
func (sp Simplicity) Correct(s string, rng *rand.Rand) string {
	if len(sp.Patterns) == 0 {
		return s
	}
	var forwards []int
	for i := 0; i < len(s); i++ {
		if s[i] == Forward {
			forwards = append(forwards, i)
		}
	}
	if len(forwards) == 0 {
		return s
	}

	chosen := make(map[int]bool, len(forwards))
	for _, i := range forwards {
		if rng.Float64() < sp.InjectRate {
			chosen[i] = true
		}
	}
	need := 1
	if len(s) > sp.MinInjectLength {
		need = sp.MinInjections
	}
	if need > len(forwards) {
		need = len(forwards)
	}
	for _, j := range rng.Perm(len(forwards)) {
		if len(chosen) >= need {
			break
		}
		chosen[forwards[j]] = true
	}

	var sb strings.Builder
	sb.Grow(len(s) + len(chosen)*6)
	for i := 0; i < len(s); i++ {
		sb.WriteByte(s[i])
		if chosen[i] {
			sb.WriteString(sp.Patterns[rng.Intn(len(sp.Patterns))])
		}
	}
	return sb.String()
}
