// This package monitors a folder of grammar files and regrows a tree from
// any that change. It also monitors for any new images and displays them.
package main

import (
	"flag"
	"hash/crc64"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/lsystem"
	"github.com/scottkirkwood/arbor/preset"
	"github.com/scottkirkwood/arbor/render"
	"github.com/scottkirkwood/arbor/turtle"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

var (
	dirFlag     = flag.String("dir", ".", "Folder of .toml/.yaml grammar files to watch")
	viewFlag    = flag.String("view", "front", "Preview view: front, side or top")
	verboseFlag = flag.Bool("v", false, "Debug logging")
)

// newImage is sent to the window when a preview is ready.
type newImage struct {
	name string
	img  image.Image
}

type watcher struct {
	log  *slog.Logger
	view render.View

	mu      sync.Mutex
	fileCrc map[string]uint64
}

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	arbor.SetLogger(log)

	view, err := render.ParseView(*viewFlag)
	if err != nil {
		log.Error("bad view", "err", err)
		os.Exit(1)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("failed to create watcher", "err", err)
		os.Exit(1)
	}
	defer fsw.Close()

	// out of the box fsnotify can watch a single file, or a single directory
	if err := fsw.Add(*dirFlag); err != nil {
		log.Error("problem adding folder watcher", "dir", *dirFlag, "err", err)
		os.Exit(1)
	}
	folder, _ := filepath.Abs(*dirFlag)
	log.Info("monitoring folder", "dir", folder)

	w := &watcher{log: log, view: view, fileCrc: map[string]uint64{}}
	startDriver(func(send func(any)) { w.watchForEvents(fsw, send) })
}

func (w *watcher) watchForEvents(fsw *fsnotify.Watcher, send func(any)) {
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				go w.regrow(event.Name)
			} else if event.Op&fsnotify.Create == fsnotify.Create {
				go w.newFile(event.Name, send)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher", "err", err)
		}
	}
}

func isGrammar(fname string) bool {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// regrow saves a fresh preview of the tree in fname next to it.
func (w *watcher) regrow(fname string) {
	if !isGrammar(fname) {
		return
	}
	if !w.fileChanged(fname) {
		w.log.Debug("file unchanged", "file", fname)
		return
	}
	p, err := preset.LoadFile(fname)
	if err != nil {
		w.log.Error("bad grammar", "file", fname, "err", err)
		return
	}
	seed, err := arbor.Init("")
	if err != nil {
		w.log.Error("seed", "err", err)
		return
	}
	rng := seed.Rand()
	g, err := p.Grammar(rng, 1)
	if err != nil {
		w.log.Error("bad grammar", "file", fname, "err", err)
		return
	}
	instr := lsystem.Expand(g, p.Generations, rng, lsystem.DefaultOptions())
	m := turtle.Interpret(instr, g, rng, turtle.DefaultOptions())

	opts := render.DefaultOptions()
	opts.View = w.view
	prefix := filepath.Join(filepath.Dir(fname), p.Name()+"-")
	if _, err := render.WriteImage(seed, m, prefix, ".png", opts); err != nil {
		w.log.Error("unable to write preview", "err", err)
	}
}

// newFile shows new images; new grammar files are grown right away.
func (w *watcher) newFile(fname string, send func(any)) {
	if isGrammar(fname) {
		w.regrow(fname)
		return
	}
	if !arbor.IsImage(fname) || isTemp(fname) || !w.fileChanged(fname) {
		return
	}
	img, err := arbor.LoadImage(fname)
	if err != nil {
		w.log.Error("unable to load image", "file", fname, "err", err)
		return
	}
	send(newImage{name: fname, img: img})
}

var onlyDigitsRx = regexp.MustCompile(`^\d+$`)

// isTemp matches vim swap files, which are only digits, and SafeWrite's
// temp files.
func isTemp(fname string) bool {
	base := filepath.Base(fname)
	return onlyDigitsRx.MatchString(base) || strings.HasPrefix(base, "arbor.")
}

func (w *watcher) fileChanged(fname string) bool {
	if isTemp(fname) {
		return false
	}
	newChecksum := fileChecksum(fname)
	w.mu.Lock()
	defer w.mu.Unlock()
	if newChecksum == w.fileCrc[fname] {
		return false
	}
	w.fileCrc[fname] = newChecksum
	return true
}

func fileChecksum(fname string) uint64 {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		arbor.Logger().Error("readfile", "file", fname, "err", err)
		return 0
	}
	return crc64.Checksum(bytes, crc64.MakeTable(crc64.ECMA))
}

// startDriver opens the viewer window and runs watch with a way to post
// events to it. It returns when the window is closed.
func startDriver(watch func(send func(any))) {
	driver.Main(func(s screen.Screen) {
		winSize := image.Point{1000, 768}
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Width:  winSize.X,
			Height: winSize.Y,
		})
		if err != nil {
			arbor.Logger().Error("new window", "err", err)
			return
		}
		defer w.Release()

		b, err := s.NewBuffer(winSize)
		if err != nil {
			arbor.Logger().Error("new buffer", "err", err)
			return
		}
		defer func() { b.Release() }()

		w.Fill(b.Bounds(), color.White, draw.Src)
		w.Publish()
		go watch(w.Send)

		var sz size.Event
		var imgs []newImage
		i := -1 // index of image to display
		resize := func() bool {
			b.Release()
			b, err = s.NewBuffer(sz.Size())
			if err != nil {
				arbor.Logger().Error("new buffer", "err", err)
				return false
			}
			return true
		}
		for {
			e := w.NextEvent()
			switch e := e.(type) {
			case newImage:
				imgs = append(imgs, e)
				i = len(imgs) - 1
				arbor.Logger().Info("showing", "file", e.name)
				w.Send(paint.Event{})

			case key.Event:
				if e.Direction != key.DirPress {
					break
				}
				switch e.Code {
				case key.CodeEscape, key.CodeQ:
					return
				case key.CodeRightArrow:
					if len(imgs) > 0 {
						i = (i + 1) % len(imgs)
						w.Send(paint.Event{})
					}
				case key.CodeLeftArrow:
					if len(imgs) > 0 {
						i = (i + len(imgs) - 1) % len(imgs)
						w.Send(paint.Event{})
					}
				}

			case paint.Event:
				if i < 0 {
					break
				}
				img := imgs[i].img
				draw.Draw(b.RGBA(), b.Bounds(), img, image.Point{}, draw.Src)
				dp := arbor.VpCenter(img, sz.WidthPx, sz.HeightPx)
				if dp != (image.Point{}) {
					w.Fill(sz.Bounds(), color.Black, draw.Src)
				}
				w.Upload(dp, b, b.Bounds())
				w.Publish()

			case size.Event:
				sz = e
				if sz.WidthPx > 0 && sz.HeightPx > 0 && !resize() {
					return
				}

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case mouse.Event:

			case error:
				arbor.Logger().Error("screen", "err", e)
				return
			}
		}
	})
}
