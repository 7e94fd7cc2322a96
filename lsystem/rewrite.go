package lsystem

import (
	"math/rand"
	"strings"

	"github.com/scottkirkwood/arbor"
)

// DefaultMaxLength caps the working string during expansion.
const DefaultMaxLength = 80000

// Options tune expansion. Start from DefaultOptions and override fields.
type Options struct {
	// MaxLength truncates the working string; later generations are skipped.
	MaxLength int

	// MutationRate is the chance an F occurrence is replaced by one of
	// Mutations instead of its rule.
	MutationRate float64
	Mutations    []string

	// Simplicity configures the too-simple detector. Disabled skips it.
	Simplicity Simplicity
}

// DefaultOptions returns the tuned expansion settings.
func DefaultOptions() Options {
	return Options{
		MaxLength:    DefaultMaxLength,
		MutationRate: 0.02,
		Mutations:    []string{"F", "FF", "F[+F]F[-F]F"},
		Simplicity:   DefaultSimplicity(),
	}
}

// Deterministic returns DefaultOptions without the F mutation or the
// simplicity correction. Only Choice rules consume randomness.
func Deterministic() Options {
	o := DefaultOptions()
	o.MutationRate = 0
	o.Simplicity.Disabled = true
	return o
}

// Expand rewrites g.Axiom for the given number of generations.
//
// Every occurrence of a Choice rule picks independently. When the working
// string passes opts.MaxLength it is cut, any trailing unbalanced branch is
// stripped, and no further generations run. Zero generations return the
// axiom untouched. The result is never empty.
func Expand(g *Grammar, generations int, rng *rand.Rand, opts Options) string {
	log := arbor.Logger().With("grammar", g.Name)
	current := g.Axiom
	if generations <= 0 {
		return current
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}

	for gen := 0; gen < generations; gen++ {
		next, truncated := rewrite(g, current, rng, opts)
		if truncated {
			log.Warn("instruction string hit length cap",
				"generation", gen+1, "cap", opts.MaxLength, "kept", len(next))
			if next == "" {
				// Nothing of this generation survived the repair.
				next = current
			}
			current = next
			break
		}
		current = next
		log.Debug("expanded generation", "generation", gen+1, "of", generations, "length", len(current))
	}

	if !opts.Simplicity.Disabled && opts.Simplicity.TooSimple(Count(current)) {
		before := len(current)
		current = opts.Simplicity.Correct(current, rng)
		log.Info("corrected too simple instruction string", "before", before, "after", len(current))
	}
	if current == "" {
		log.Warn("rules erased the instruction string, falling back to axiom")
		current = g.Axiom
	}
	log.Debug("final instruction string", "length", len(current))
	return current
}

// rewrite applies one generation, stopping early once the cap is passed.
// Branch symbols are always copied through.
func rewrite(g *Grammar, current string, rng *rand.Rand, opts Options) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(current) * 2)
	for i := 0; i < len(current); i++ {
		c := current[i]
		if c == Forward && opts.MutationRate > 0 && len(opts.Mutations) > 0 && rng.Float64() < opts.MutationRate {
			sb.WriteString(opts.Mutations[rng.Intn(len(opts.Mutations))])
		} else if r, ok := g.Rules[c]; ok && c != Push && c != Pop {
			sb.WriteString(r.pick(rng))
		} else {
			sb.WriteByte(c)
		}
		if sb.Len() > opts.MaxLength {
			return RepairTruncated(sb.String()[:opts.MaxLength]), true
		}
	}
	return sb.String(), false
}

// RepairTruncated drops everything from the outermost [ that is never
// closed, so the result is bracket balanced. Stray ] are dropped too.
func RepairTruncated(s string) string {
	var open []int
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Push:
			open = append(open, sb.Len())
		case Pop:
			if len(open) == 0 {
				continue
			}
			open = open[:len(open)-1]
		}
		sb.WriteByte(s[i])
	}
	out := sb.String()
	if len(open) > 0 {
		out = out[:open[0]]
	}
	return out
}

// Stats counts the symbol classes of an instruction string.
type Stats struct {
	Length    int
	Forward   int
	Leaves    int
	Branches  int // [ and ] together
	Rotations int
	MaxDepth  int
}

// Count gathers Stats for s.
func Count(s string) Stats {
	st := Stats{Length: len(s)}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Forward:
			st.Forward++
		case Leaf:
			st.Leaves++
		case Push:
			st.Branches++
			depth++
			if depth > st.MaxDepth {
				st.MaxDepth = depth
			}
		case Pop:
			st.Branches++
			depth--
		case YawLeft, YawRight, PitchDn, PitchUp, RollLeft, RollRt:
			st.Rotations++
		}
	}
	return st
}
