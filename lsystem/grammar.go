// Package lsystem holds L-system grammars and the string rewriter that
// expands an axiom into a turtle instruction string.
package lsystem

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidGrammar is wrapped by every validation failure.
var ErrInvalidGrammar = errors.New("invalid grammar")

// Turtle alphabet.
const (
	Forward  = 'F'
	Leaf     = 'X'
	Push     = '['
	Pop      = ']'
	YawLeft  = '+'
	YawRight = '-'
	PitchDn  = '&'
	PitchUp  = '^'
	RollLeft = '\\'
	RollRt   = '/'
)

// Defaults for zero valued Spec fields.
const (
	DefaultWidthReduction = 0.75
	DefaultInitialLength  = 1.0
	DefaultInitialWidth   = 0.1
)

// Rule is a production: either a Fixed replacement or a uniform Choice.
type Rule interface {
	// Alternatives lists every string the rule can produce.
	Alternatives() []string
	pick(rng *rand.Rand) string
}

// Fixed always rewrites to the same string.
type Fixed string

func (f Fixed) Alternatives() []string { return []string{string(f)} }
func (f Fixed) pick(*rand.Rand) string { return string(f) }
func (f Fixed) String() string         { return string(f) }

// Choice rewrites each occurrence to one of its strings, uniformly.
type Choice []string

func (c Choice) Alternatives() []string { return c }

func (c Choice) pick(rng *rand.Rand) string {
	if len(c) == 1 {
		return c[0]
	}
	return c[rng.Intn(len(c))]
}

// LeafColor is either a Solid color or a Range sampled once per grammar.
type LeafColor interface {
	resolve(rng *rand.Rand) colorful.Color
	valid() error
}

// Solid is a single fixed leaf color.
type Solid colorful.Color

func (s Solid) resolve(*rand.Rand) colorful.Color { return colorful.Color(s) }
func (s Solid) valid() error                      { return checkRGB("leaf color", colorful.Color(s)) }

// Range samples each channel uniformly between Min and Max.
type Range struct {
	Min, Max colorful.Color
}

func (r Range) resolve(rng *rand.Rand) colorful.Color {
	return colorful.Color{
		R: r.Min.R + rng.Float64()*(r.Max.R-r.Min.R),
		G: r.Min.G + rng.Float64()*(r.Max.G-r.Min.G),
		B: r.Min.B + rng.Float64()*(r.Max.B-r.Min.B),
	}
}

func (r Range) valid() error {
	if err := checkRGB("leaf color min", r.Min); err != nil {
		return err
	}
	if err := checkRGB("leaf color max", r.Max); err != nil {
		return err
	}
	if r.Min.R > r.Max.R || r.Min.G > r.Max.G || r.Min.B > r.Max.B {
		return fmt.Errorf("%w: leaf color range min %v above max %v", ErrInvalidGrammar, r.Min, r.Max)
	}
	return nil
}

// Spec is the configuration a Grammar is built from.
// Zero WidthReduction, InitialLength and InitialWidth take the defaults above.
type Spec struct {
	Name  string
	Axiom string
	Rules map[byte]Rule

	// Angle is the base rotation in radians. AngleJitter is the largest
	// one-time deviation applied by New.
	Angle       float64
	AngleJitter float64

	Scale          float64
	WidthReduction float64
	InitialLength  float64
	InitialWidth   float64

	TrunkColor colorful.Color
	Leaf       LeafColor
}

// Grammar is a validated Spec with its random parts resolved.
// It must not be modified after New returns it.
type Grammar struct {
	Name  string
	Axiom string
	Rules map[byte]Rule

	Angle          float64
	Scale          float64
	WidthReduction float64
	InitialLength  float64
	InitialWidth   float64

	TrunkColor colorful.Color
	LeafColor  colorful.Color
}

// New validates s and samples the angle jitter and leaf color from rng.
func New(s Spec, rng *rand.Rand) (*Grammar, error) {
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := &Grammar{
		Name:           s.Name,
		Axiom:          s.Axiom,
		Rules:          make(map[byte]Rule, len(s.Rules)),
		Angle:          s.Angle,
		Scale:          s.Scale,
		WidthReduction: s.WidthReduction,
		InitialLength:  s.InitialLength,
		InitialWidth:   s.InitialWidth,
		TrunkColor:     s.TrunkColor,
		LeafColor:      s.Leaf.resolve(rng),
	}
	for k, r := range s.Rules {
		g.Rules[k] = r
	}
	if s.AngleJitter > 0 {
		g.Angle += (rng.Float64()*2 - 1) * s.AngleJitter
	}
	return g, nil
}

func (s Spec) withDefaults() Spec {
	if s.WidthReduction == 0 {
		s.WidthReduction = DefaultWidthReduction
	}
	if s.InitialLength == 0 {
		s.InitialLength = DefaultInitialLength
	}
	if s.InitialWidth == 0 {
		s.InitialWidth = DefaultInitialWidth
	}
	if s.Leaf == nil {
		s.Leaf = Solid{G: 0.8}
	}
	return s
}

// Validate reports the first configuration problem in s, wrapping ErrInvalidGrammar.
func (s Spec) Validate() error {
	s = s.withDefaults()
	switch {
	case s.Axiom == "":
		return fmt.Errorf("%w: empty axiom", ErrInvalidGrammar)
	case !(s.Scale > 0 && s.Scale < 1):
		return fmt.Errorf("%w: scale %v not in (0,1)", ErrInvalidGrammar, s.Scale)
	case !(s.WidthReduction > 0 && s.WidthReduction <= 1):
		return fmt.Errorf("%w: width reduction %v not in (0,1]", ErrInvalidGrammar, s.WidthReduction)
	case math.IsNaN(s.Angle) || math.IsInf(s.Angle, 0):
		return fmt.Errorf("%w: angle %v not finite", ErrInvalidGrammar, s.Angle)
	case math.IsNaN(s.AngleJitter) || math.IsInf(s.AngleJitter, 0) || s.AngleJitter < 0:
		return fmt.Errorf("%w: angle jitter %v", ErrInvalidGrammar, s.AngleJitter)
	case !(s.InitialLength > 0) || math.IsInf(s.InitialLength, 0):
		return fmt.Errorf("%w: initial length %v", ErrInvalidGrammar, s.InitialLength)
	case !(s.InitialWidth > 0) || math.IsInf(s.InitialWidth, 0):
		return fmt.Errorf("%w: initial width %v", ErrInvalidGrammar, s.InitialWidth)
	}
	if err := checkRGB("trunk color", s.TrunkColor); err != nil {
		return err
	}
	if err := s.Leaf.valid(); err != nil {
		return err
	}
	if !Balanced(s.Axiom) {
		return fmt.Errorf("%w: axiom %q has unbalanced brackets", ErrInvalidGrammar, s.Axiom)
	}
	for _, k := range sortedKeys(s.Rules) {
		if k == Push || k == Pop {
			return fmt.Errorf("%w: rule on %q, branch symbols cannot be rewritten", ErrInvalidGrammar, k)
		}
		r := s.Rules[k]
		if r == nil || len(r.Alternatives()) == 0 {
			return fmt.Errorf("%w: rule %q has no alternatives", ErrInvalidGrammar, k)
		}
		for _, alt := range r.Alternatives() {
			if !Balanced(alt) {
				return fmt.Errorf("%w: rule %q alternative %q has unbalanced brackets", ErrInvalidGrammar, k, alt)
			}
		}
	}
	if !s.canDraw() {
		return fmt.Errorf("%w: axiom %q can never draw", ErrInvalidGrammar, s.Axiom)
	}
	return nil
}

// canDraw walks the symbols reachable from the axiom looking for F or X.
func (s Spec) canDraw() bool {
	seen := map[byte]bool{}
	todo := []byte(s.Axiom)
	for len(todo) > 0 {
		c := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if seen[c] {
			continue
		}
		seen[c] = true
		if c == Forward || c == Leaf {
			return true
		}
		if r, ok := s.Rules[c]; ok && r != nil {
			for _, alt := range r.Alternatives() {
				todo = append(todo, alt...)
			}
		}
	}
	return false
}

// Rule returns the production for c, if any.
func (g *Grammar) Rule(c byte) (Rule, bool) {
	r, ok := g.Rules[c]
	return r, ok
}

func (g *Grammar) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s axiom=%q", g.Name, g.Axiom)
	for _, k := range sortedKeys(g.Rules) {
		fmt.Fprintf(&sb, " %c→%v", k, g.Rules[k].Alternatives())
	}
	fmt.Fprintf(&sb, " angle=%.2f° scale=%.2f", g.Angle*180/math.Pi, g.Scale)
	return sb.String()
}

// Balanced returns true if every ] closes an earlier [ and none are left open.
func Balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Push:
			depth++
		case Pop:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func checkRGB(what string, c colorful.Color) error {
	for _, v := range []float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s %v outside [0,1]", ErrInvalidGrammar, what, c)
		}
	}
	return nil
}

func sortedKeys(m map[byte]Rule) []byte {
	keys := make([]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
