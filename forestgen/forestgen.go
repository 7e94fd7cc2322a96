// Forestgen scatters L-system trees over a square patch of ground and
// saves a preview of the whole forest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/forest"
	"github.com/scottkirkwood/arbor/preset"
	"github.com/scottkirkwood/arbor/render"
)

var (
	seedFlag     = flag.String("seed", "", "Hex value for the seed to use")
	countFlag    = flag.Int("count", 20, "Trees requested, 0 derives it from -density")
	densityFlag  = flag.Float64("density", 0, "Trees per 100 square units when -count is 0")
	areaFlag     = flag.Float64("area", 40, "Side of the square patch")
	distFlag     = flag.Float64("min-distance", 3, "Minimum distance between trees")
	attemptsFlag = flag.Int("attempts", forest.DefaultMaxAttempts, "Placement draws per tree")
	presetsFlag  = flag.String("presets", "", "Comma separated tree families, empty for all")
	workersFlag  = flag.Int("workers", 0, "Trees grown in parallel, 0 for one per CPU")
	viewFlag     = flag.String("view", "front", "Preview view: front, side or top")
	extFlag      = flag.String("ext", ".png", "Preview format: .png, .svg or .pdf")
	outFlag      = flag.String("out", "", "Folder to save the preview in")
	widthFlag    = flag.Int("width", 1600, "Preview width")
	heightFlag   = flag.Int("height", 1000, "Preview height")
	verboseFlag  = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	arbor.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, log); err != nil {
		log.Error("forestgen failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	seed, err := arbor.Init(*seedFlag)
	if err != nil {
		return fmt.Errorf("unable to set the seed: %w", err)
	}
	view, err := render.ParseView(*viewFlag)
	if err != nil {
		return err
	}
	presets, err := preset.Parse(*presetsFlag)
	if err != nil {
		return err
	}

	cfg := forest.DefaultConfig()
	cfg.Count = *countFlag
	cfg.Density = *densityFlag
	cfg.AreaSize = *areaFlag
	cfg.MinDistance = *distFlag
	cfg.MaxAttempts = *attemptsFlag
	cfg.Presets = presets
	cfg.Workers = *workersFlag
	cfg.Seed = seed.GetSeed()

	f, err := forest.Render(ctx, cfg)
	if err != nil {
		return err
	}
	for _, t := range f.Trees {
		log.Info("tree", "index", t.Index, "preset", t.Preset, "x", t.Offset.X, "z", t.Offset.Z,
			"scale", t.Scale, "segments", t.Stats.Segments, "height", t.Stats.Height)
	}
	log.Info("forest", "trees", len(f.Trees), "requested", f.Requested,
		"vertices", f.Mesh.VertexCount(), "height", f.Mesh.Stats.Height)

	opts := render.DefaultOptions()
	opts.View = view
	opts.Width, opts.Height = float64(*widthFlag), float64(*heightFlag)
	fname, err := render.WriteImage(seed, f.Mesh, filepath.Join(*outFlag, "forest-"), *extFlag, opts)
	if err != nil {
		return err
	}
	fmt.Println(fname)
	return nil
}
