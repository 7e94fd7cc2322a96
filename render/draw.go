package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/scottkirkwood/arbor"
	"github.com/scottkirkwood/arbor/turtle"
)

// Drawer is the subset of a 2D canvas previews are drawn with, in y-up
// coordinates. *arbor.Context and *Raster implement it.
type Drawer interface {
	Clear(col color.Color)
	SetStrokeColor(col color.Color)
	SetStrokeWidth(width float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
}

// Options control how a preview looks.
type Options struct {
	View          View
	Width, Height float64
	Margin        float64
	Background    colorful.Color

	// MinStroke keeps the thinnest twigs visible.
	MinStroke float64
}

// DefaultOptions is a 1200x1200 front view on a light background.
func DefaultOptions() Options {
	return Options{
		View:       Front,
		Width:      1200,
		Height:     1200,
		Margin:     40,
		Background: colorful.Color{R: 0.96, G: 0.96, B: 0.94},
		MinStroke:  0.5,
	}
}

// Draw clears d and strokes every segment with its own color and width.
// segs must already be in canvas coordinates, see Fit.
func Draw(d Drawer, segs []Segment, opts Options) {
	d.Clear(opts.Background)
	for _, s := range segs {
		d.SetStrokeColor(s.Color)
		d.SetStrokeWidth(math.Max(s.Width, opts.MinStroke))
		d.MoveTo(s.X0, s.Y0)
		d.LineTo(s.X1, s.Y1)
		d.Stroke()
	}
}

// DrawMesh projects m, fits it to opts and draws it on d.
func DrawMesh(d Drawer, m *turtle.Mesh, opts Options) {
	segs, scale := Fit(Project(m, opts.View), opts.Width, opts.Height, opts.Margin)
	arbor.Logger().Debug("drawing preview", "view", opts.View, "segments", len(segs), "scale", scale)
	Draw(d, segs, opts)
}

// Raster is a gg image that flips y so it can be drawn like the vector Context.
type Raster struct {
	dc     *gg.Context
	height float64
}

// NewRaster returns a width by height pixel raster.
func NewRaster(width, height int) *Raster {
	dc := gg.NewContext(width, height)
	dc.SetLineCap(gg.LineCapRound)
	return &Raster{dc: dc, height: float64(height)}
}

func (r *Raster) Clear(col color.Color) {
	r.dc.SetColor(col)
	r.dc.Clear()
}

func (r *Raster) SetStrokeColor(col color.Color) { r.dc.SetColor(col) }
func (r *Raster) SetStrokeWidth(width float64)   { r.dc.SetLineWidth(width) }
func (r *Raster) MoveTo(x, y float64)            { r.dc.MoveTo(x, r.height-y) }
func (r *Raster) LineTo(x, y float64)            { r.dc.LineTo(x, r.height-y) }
func (r *Raster) Stroke()                        { r.dc.Stroke() }

// Image returns the pixels drawn so far.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// WritePNG saves the raster as a PNG file.
func (r *Raster) WritePNG(fname string) error { return r.dc.SavePNG(fname) }

var errRasterOnly = errors.New("raster preview only writes png")

func (r *Raster) WriteSVG(string) error { return errRasterOnly }
func (r *Raster) WritePDF(string) error { return errRasterOnly }

// DrawRaster draws m on a new gg raster of the options' size.
func DrawRaster(m *turtle.Mesh, opts Options) *Raster {
	r := NewRaster(int(opts.Width), int(opts.Height))
	DrawMesh(r, m, opts)
	return r
}

// DrawVector draws m on a new canvas Context, written as svg, pdf or png.
func DrawVector(m *turtle.Mesh, opts Options) *arbor.Context {
	ctx := arbor.NewContext(opts.Width, opts.Height)
	DrawMesh(ctx, m, opts)
	return ctx
}

// Preview draws m and returns the image, for viewers.
func Preview(m *turtle.Mesh, opts Options) image.Image {
	return DrawRaster(m, opts).Image()
}

// WriteImage draws m and saves it through seed.SafeWrite, choosing gg for
// .png and the vector canvas for .svg and .pdf. It returns the file name.
func WriteImage(seed arbor.Seed, m *turtle.Mesh, prefix, ext string, opts Options) (string, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	var c arbor.Canvas
	switch strings.ToLower(ext) {
	case ".png":
		c = DrawRaster(m, opts)
	case ".svg", ".pdf":
		c = DrawVector(m, opts)
	default:
		return "", fmt.Errorf("unsupported preview format %s", ext)
	}
	fname, err := seed.SafeWrite(c, prefix, strings.ToLower(ext))
	if err != nil {
		return "", fmt.Errorf("write preview: %w", err)
	}
	return fname, nil
}
