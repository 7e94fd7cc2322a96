package preset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"github.com/scottkirkwood/arbor/lsystem"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of a preset. Angles are in degrees and colors
// are hex strings like "#8c4513".
type File struct {
	Name           string         `toml:"name" yaml:"name"`
	Axiom          string         `toml:"axiom" yaml:"axiom"`
	Rules          map[string]any `toml:"rules" yaml:"rules"`
	Angle          float64        `toml:"angle" yaml:"angle"`
	AngleJitter    float64        `toml:"angle_jitter" yaml:"angle_jitter"`
	Scale          float64        `toml:"scale" yaml:"scale"`
	WidthReduction float64        `toml:"width_reduction" yaml:"width_reduction"`
	InitialLength  float64        `toml:"initial_length" yaml:"initial_length"`
	InitialWidth   float64        `toml:"initial_width" yaml:"initial_width"`
	Generations    int            `toml:"generations" yaml:"generations"`
	Randomness     float64        `toml:"randomness" yaml:"randomness"`
	SizeScale      float64        `toml:"size_scale" yaml:"size_scale"`
	TrunkColor     string         `toml:"trunk_color" yaml:"trunk_color"`
	LeafColor      string         `toml:"leaf_color" yaml:"leaf_color"`
	LeafColorMin   string         `toml:"leaf_color_min" yaml:"leaf_color_min"`
	LeafColorMax   string         `toml:"leaf_color_max" yaml:"leaf_color_max"`
}

// LoadFile reads a preset from a .toml, .yaml or .yml file.
// A missing name defaults to the file's base name.
func LoadFile(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	default:
		return Preset{}, fmt.Errorf("%s: unsupported grammar file type %q", path, ext)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p, err := f.Preset()
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Preset converts f and validates the result.
func (f File) Preset() (Preset, error) {
	rules, err := parseRules(f.Rules)
	if err != nil {
		return Preset{}, err
	}
	trunk := colorful.Color{R: 0.55, G: 0.27, B: 0.07}
	if f.TrunkColor != "" {
		if trunk, err = colorful.Hex(f.TrunkColor); err != nil {
			return Preset{}, fmt.Errorf("%w: trunk_color: %v", lsystem.ErrInvalidGrammar, err)
		}
	}
	leaf, err := f.leaf()
	if err != nil {
		return Preset{}, err
	}
	generations := f.Generations
	if generations == 0 {
		generations = 3
	}
	p := Preset{
		Spec: lsystem.Spec{
			Name:           f.Name,
			Axiom:          f.Axiom,
			Rules:          rules,
			Angle:          mgl64.DegToRad(f.Angle),
			AngleJitter:    mgl64.DegToRad(f.AngleJitter),
			Scale:          f.Scale,
			WidthReduction: f.WidthReduction,
			InitialLength:  f.InitialLength,
			InitialWidth:   f.InitialWidth,
			TrunkColor:     trunk,
			Leaf:           leaf,
		},
		Generations: generations,
		Randomness:  f.Randomness,
		SizeScale:   f.SizeScale,
	}
	if err := p.Spec.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func (f File) leaf() (lsystem.LeafColor, error) {
	hex := func(field, s string) (colorful.Color, error) {
		c, err := colorful.Hex(s)
		if err != nil {
			return c, fmt.Errorf("%w: %s: %v", lsystem.ErrInvalidGrammar, field, err)
		}
		return c, nil
	}
	switch {
	case f.LeafColorMin != "" || f.LeafColorMax != "":
		if f.LeafColor != "" {
			return nil, fmt.Errorf("%w: leaf_color and leaf_color_min/max are exclusive", lsystem.ErrInvalidGrammar)
		}
		lo, err := hex("leaf_color_min", f.LeafColorMin)
		if err != nil {
			return nil, err
		}
		hi, err := hex("leaf_color_max", f.LeafColorMax)
		if err != nil {
			return nil, err
		}
		return lsystem.Range{Min: lo, Max: hi}, nil
	case f.LeafColor != "":
		c, err := hex("leaf_color", f.LeafColor)
		if err != nil {
			return nil, err
		}
		return lsystem.Solid(c), nil
	}
	return nil, nil
}

// parseRules accepts a string or a list of strings per single character key.
func parseRules(in map[string]any) (map[byte]lsystem.Rule, error) {
	out := make(map[byte]lsystem.Rule, len(in))
	for k, v := range in {
		if len(k) != 1 {
			return nil, fmt.Errorf("%w: rule key %q must be one character", lsystem.ErrInvalidGrammar, k)
		}
		switch v := v.(type) {
		case string:
			out[k[0]] = lsystem.Fixed(v)
		case []any:
			var c lsystem.Choice
			for _, alt := range v {
				s, ok := alt.(string)
				if !ok {
					return nil, fmt.Errorf("%w: rule %q alternative %v is not a string", lsystem.ErrInvalidGrammar, k, alt)
				}
				c = append(c, s)
			}
			out[k[0]] = c
		default:
			return nil, fmt.Errorf("%w: rule %q has type %T", lsystem.ErrInvalidGrammar, k, v)
		}
	}
	return out, nil
}
