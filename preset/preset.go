// Package preset is the registry of tree families and the loader for
// grammar files.
package preset

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/scottkirkwood/arbor/lsystem"
)

// ErrUnknownPreset is returned by Lookup for names not in the registry.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a tree family: a grammar spec plus how to grow it.
type Preset struct {
	Spec lsystem.Spec

	// Generations is how many times the rules are applied.
	Generations int

	// Randomness feeds lsystem.Randomize each time a grammar is built.
	Randomness float64

	// SizeScale shrinks or grows the family relative to others in a forest.
	SizeScale float64
}

// Name is the family name.
func (p Preset) Name() string { return p.Spec.Name }

// Grammar builds a fresh grammar for one tree. size multiplies the initial
// length and width on top of SizeScale.
func (p Preset) Grammar(rng *rand.Rand, size float64) (*lsystem.Grammar, error) {
	s := p.Spec
	if p.Randomness > 0 {
		s.Rules = lsystem.Randomize(s.Rules, p.Randomness, rng)
	}
	scale := size
	if p.SizeScale > 0 {
		scale *= p.SizeScale
	}
	if scale > 0 {
		if s.InitialLength == 0 {
			s.InitialLength = lsystem.DefaultInitialLength
		}
		if s.InitialWidth == 0 {
			s.InitialWidth = lsystem.DefaultInitialWidth
		}
		s.InitialLength *= scale
		s.InitialWidth *= scale
	}
	g, err := lsystem.New(s, rng)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", p.Name(), err)
	}
	return g, nil
}

func rgb255(r, g, b float64) colorful.Color {
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}
}

func deg(d float64) float64 { return mgl64.DegToRad(d) }

var registry = map[string]Preset{
	"pine": {
		Spec: lsystem.Spec{
			Name:  "pine",
			Axiom: "FFFX",
			Rules: map[byte]lsystem.Rule{
				'X': lsystem.Choice{"F[&&FX][/&&FX][\\&&FX]FX", "F[&&FX][//&&FX]FX"},
			},
			Angle:          deg(20),
			AngleJitter:    deg(1.5),
			Scale:          0.7,
			WidthReduction: 0.7,
			InitialLength:  0.6,
			InitialWidth:   0.12,
			TrunkColor:     rgb255(60, 30, 15),
			Leaf:           lsystem.Range{Min: rgb255(10, 70, 25), Max: rgb255(30, 100, 45)},
		},
		Generations: 4,
		Randomness:  0.1,
	},
	"oak": {
		Spec: lsystem.Spec{
			Name:  "oak",
			Axiom: "FFX",
			Rules: map[byte]lsystem.Rule{
				'F': lsystem.Fixed("FF"),
				'X': lsystem.Choice{"F[+X][-X][&X]FX", "F-[[X]+X]+F[+FX]-X"},
			},
			Angle:          deg(25),
			AngleJitter:    deg(3),
			Scale:          0.75,
			WidthReduction: 0.7,
			InitialLength:  0.5,
			InitialWidth:   0.15,
			TrunkColor:     rgb255(90, 50, 30),
			Leaf:           lsystem.Range{Min: rgb255(50, 110, 25), Max: rgb255(70, 145, 40)},
		},
		Generations: 3,
		Randomness:  0.1,
	},
	"birch": {
		Spec: lsystem.Spec{
			Name:  "birch",
			Axiom: "FFFX",
			Rules: map[byte]lsystem.Rule{
				'X': lsystem.Choice{"F[+FX][\\-FX]/FX", "F[&FX]F[^FX]X"},
			},
			Angle:          deg(22),
			AngleJitter:    deg(2),
			Scale:          0.8,
			WidthReduction: 0.65,
			InitialLength:  0.7,
			InitialWidth:   0.08,
			TrunkColor:     rgb255(215, 210, 198),
			Leaf:           lsystem.Range{Min: rgb255(120, 170, 50), Max: rgb255(170, 200, 70)},
		},
		Generations: 4,
		Randomness:  0.1,
	},
	"willow": {
		Spec: lsystem.Spec{
			Name:  "willow",
			Axiom: "FFX",
			Rules: map[byte]lsystem.Rule{
				'F': lsystem.Fixed("FF"),
				'X': lsystem.Fixed("F[&&&FX][/&&&FX][\\&&&FX][//&&&FX]"),
			},
			Angle:          deg(15),
			AngleJitter:    deg(2),
			Scale:          0.85,
			WidthReduction: 0.7,
			InitialLength:  0.5,
			InitialWidth:   0.14,
			TrunkColor:     rgb255(85, 70, 45),
			Leaf:           lsystem.Solid(rgb255(150, 190, 60)),
		},
		Generations: 3,
		Randomness:  0.05,
	},
	"bush": {
		Spec: lsystem.Spec{
			Name:  "bush",
			Axiom: "FX",
			Rules: map[byte]lsystem.Rule{
				'F': lsystem.Fixed("F[+F]F[-F]F"),
				'X': lsystem.Fixed("[+FX][-FX][&FX][^FX]"),
			},
			Angle:          deg(35),
			AngleJitter:    deg(3),
			Scale:          0.7,
			WidthReduction: 0.6,
			InitialLength:  0.4,
			InitialWidth:   0.06,
			TrunkColor:     rgb255(76, 51, 25),
			Leaf:           lsystem.Range{Min: rgb255(40, 150, 40), Max: rgb255(60, 200, 60)},
		},
		Generations: 2,
		Randomness:  0.2,
		SizeScale:   0.6,
	},
	"palm": {
		Spec: lsystem.Spec{
			Name:  "palm",
			Axiom: "FFFFF[X]",
			Rules: map[byte]lsystem.Rule{
				'F': lsystem.Fixed("FF"),
				'X': lsystem.Fixed("[-FX][+FX][&&FX][^^FX]"),
			},
			Angle:          deg(25),
			AngleJitter:    deg(1.5),
			Scale:          0.6,
			WidthReduction: 0.5,
			InitialLength:  0.35,
			InitialWidth:   0.13,
			TrunkColor:     rgb255(120, 90, 60),
			Leaf:           lsystem.Solid(rgb255(40, 160, 60)),
		},
		Generations: 3,
	},
	"fractal": {
		Spec: lsystem.Spec{
			Name:  "fractal",
			Axiom: "X",
			Rules: map[byte]lsystem.Rule{
				'X': lsystem.Fixed("F[+X][-X]FX"),
				'F': lsystem.Fixed("FF"),
			},
			Angle:          deg(25),
			AngleJitter:    deg(2),
			Scale:          0.8,
			WidthReduction: 0.75,
			InitialLength:  0.25,
			InitialWidth:   0.1,
			TrunkColor:     colorful.Color{R: 0.55, G: 0.27, B: 0.07},
			Leaf:           lsystem.Solid{G: 0.8},
		},
		Generations: 4,
	},
}

// Default is the family used when none is named.
const Default = "fractal"

// Names lists the registered families, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named family. Names are case insensitive.
func Lookup(name string) (Preset, error) {
	p, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q, want one of %s", ErrUnknownPreset, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// All returns every family in Names order.
func All() []Preset {
	var out []Preset
	for _, n := range Names() {
		out = append(out, registry[n])
	}
	return out
}

// Parse turns a comma separated list of names into presets.
func Parse(list string) ([]Preset, error) {
	var out []Preset
	for _, n := range strings.Split(list, ",") {
		if strings.TrimSpace(n) == "" {
			continue
		}
		p, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
