package arbor

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngOnly writes a tiny image for PNG and refuses the vector formats.
type pngOnly struct{}

func (pngOnly) WritePNG(fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.White)
	return png.Encode(f, img)
}

func (pngOnly) WriteSVG(string) error { return errors.New("no svg") }
func (pngOnly) WritePDF(string) error { return errors.New("no pdf") }

func TestSafeWrite(t *testing.T) {
	dir := t.TempDir()
	s := NewSeed(0xabc)

	fname, err := s.SafeWrite(pngOnly{}, filepath.Join(dir, "out", "tree-"), ".png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(fname, "-abc.png"), fname)
	assert.True(t, IsImage(fname))

	img, err := LoadImage(fname)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, image.Point{3, 4}, VpCenter(img, 9, 10))

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should have been renamed away")
}

func TestSafeWriteErrors(t *testing.T) {
	dir := t.TempDir()
	s := NewSeed(1)

	_, err := s.SafeWrite(pngOnly{}, filepath.Join(dir, "tree-"), ".svg")
	assert.Error(t, err)
	_, err = s.SafeWrite(pngOnly{}, filepath.Join(dir, "tree-"), ".gif")
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
