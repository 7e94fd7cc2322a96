package arbor

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var imageExts = []string{".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// IsImage returns true if fName has an extension LoadImage can decode.
func IsImage(fName string) bool {
	lower := strings.ToLower(fName)
	for _, ext := range imageExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// LoadImage decodes a single image file.
func LoadImage(fName string) (image.Image, error) {
	file, err := os.Open(fName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	start := time.Now()
	img, kind, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q into a supported image format: %w", fName, err)
	}
	Logger().Debug("decoded image", "file", filepath.Base(fName), "kind", kind, "took", time.Since(start))
	return img, nil
}

// VpCenter inspects the canvas and image geometry, and determines where the
// origin of the image should be painted into the canvas.
// If the image is bigger than the canvas, this is always (0, 0).
// If a dimension of the image is smaller than the canvas, then:
// x = (canvas_width - image_width) / 2 and
// y = (canvas_height - image_height) / 2
func VpCenter(ximg image.Image, canWidth, canHeight int) image.Point {
	xmargin, ymargin := 0, 0
	if ximg.Bounds().Dx() < canWidth {
		xmargin = (canWidth - ximg.Bounds().Dx()) / 2
	}
	if ximg.Bounds().Dy() < canHeight {
		ymargin = (canHeight - ximg.Bounds().Dy()) / 2
	}
	return image.Point{xmargin, ymargin}
}
