// Treegen grows a single 3D tree from an L-system preset or grammar file
// and saves an orthographic preview of it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/lsystem"
	"github.com/scottkirkwood/arbor/preset"
	"github.com/scottkirkwood/arbor/render"
	"github.com/scottkirkwood/arbor/turtle"
)

var (
	seedFlag        = flag.String("seed", "", "Hex value for the seed to use")
	presetFlag      = flag.String("preset", preset.Default, "Tree family: "+strings.Join(preset.Names(), ", "))
	grammarFlag     = flag.String("grammar", "", "TOML or YAML grammar file, overrides -preset")
	generationsFlag = flag.Int("generations", 0, "Rewrite generations, 0 uses the preset's")
	sizeFlag        = flag.Float64("size", 1, "Scale of the initial branch length and width")
	viewFlag        = flag.String("view", "front", "Preview view: front, side or top")
	extFlag         = flag.String("ext", ".png", "Preview format: .png, .svg or .pdf")
	outFlag         = flag.String("out", "", "Folder to save the preview in")
	widthFlag       = flag.Int("width", 1200, "Preview width")
	heightFlag      = flag.Int("height", 1200, "Preview height")
	verboseFlag     = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	arbor.SetLogger(log)

	if err := run(log); err != nil {
		log.Error("treegen failed", "err", err)
		os.Exit(1)
	}
}

func loadPreset() (preset.Preset, error) {
	if *grammarFlag != "" {
		return preset.LoadFile(*grammarFlag)
	}
	return preset.Lookup(*presetFlag)
}

func run(log *slog.Logger) error {
	seed, err := arbor.Init(*seedFlag)
	if err != nil {
		return fmt.Errorf("unable to set the seed: %w", err)
	}
	view, err := render.ParseView(*viewFlag)
	if err != nil {
		return err
	}
	p, err := loadPreset()
	if err != nil {
		return err
	}
	generations := p.Generations
	if *generationsFlag > 0 {
		generations = *generationsFlag
	}

	rng := seed.Rand()
	g, err := p.Grammar(rng, *sizeFlag)
	if err != nil {
		return err
	}
	log.Debug("grammar", "grammar", g.String())

	instr := lsystem.Expand(g, generations, rng, lsystem.DefaultOptions())
	st := lsystem.Count(instr)
	log.Info("expanded", "preset", p.Name(), "generations", generations, "length", st.Length,
		"forward", st.Forward, "branches", st.Branches, "depth", st.MaxDepth)

	m := turtle.Interpret(instr, g, rng, turtle.DefaultOptions())
	log.Info("tree", "segments", m.Stats.Segments, "leaves", m.Stats.Leaves,
		"height", m.Stats.Height, "depth", m.Stats.MaxDepth)

	opts := render.DefaultOptions()
	opts.View = view
	opts.Width, opts.Height = float64(*widthFlag), float64(*heightFlag)
	prefix := p.Name() + "-"
	if *outFlag != "" {
		prefix = filepath.Join(*outFlag, prefix)
	}
	fname, err := render.WriteImage(seed, m, prefix, *extFlag, opts)
	if err != nil {
		return err
	}
	fmt.Println(fname)
	return nil
}
