package lsystem

import (
	"math/rand"
	"strings"
)

// Randomize returns a copy of rules where each rule becomes a Choice over
// variants of its alternatives: the alternative itself, one with + and -
// swapped with probability amount (only when it holds both), and one with a
// random turn inserted before each F with probability amount.
// The input map is not modified. amount <= 0 returns an unchanged copy.
func Randomize(rules map[byte]Rule, amount float64, rng *rand.Rand) map[byte]Rule {
	out := make(map[byte]Rule, len(rules))
	for _, k := range sortedKeys(rules) {
		r := rules[k]
		if amount <= 0 || r == nil {
			out[k] = r
			continue
		}
		var variants Choice
		for _, alt := range r.Alternatives() {
			variants = append(variants, alt)
			if strings.ContainsRune(alt, YawLeft) && strings.ContainsRune(alt, YawRight) {
				variants = append(variants, swapTurns(alt, amount, rng))
			}
			variants = append(variants, addTurns(alt, amount, rng))
		}
		out[k] = variants
	}
	return out
}

func swapTurns(s string, amount float64, rng *rand.Rand) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c == YawLeft && rng.Float64() < amount:
			b[i] = YawRight
		case c == YawRight && rng.Float64() < amount:
			b[i] = YawLeft
		}
	}
	return string(b)
}

func addTurns(s string, amount float64, rng *rand.Rand) string {
	var sb strings.Builder
	sb.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		if s[i] == Forward && rng.Float64() < amount {
			if rng.Float64() < 0.5 {
				sb.WriteByte(YawLeft)
			} else {
				sb.WriteByte(YawRight)
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
