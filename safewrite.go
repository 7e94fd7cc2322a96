package arbor

import (
	"fmt"
	"os"
	"path/filepath"
)

const tmpFolder = "./"

// Canvas is anything that can save itself in one of the preview formats.
// Formats it cannot produce return an error.
type Canvas interface {
	WritePNG(fname string) error
	WriteSVG(fname string) error
	WritePDF(fname string) error
}

// SafeWrite noisily saves to tmp file and then moves, returning the final name.
func (s Seed) SafeWrite(c Canvas, prefix, ext string) (string, error) {
	fname := s.GetFilename(prefix, ext)
	if err := safeWrite(c, fname); err != nil {
		Logger().Error("problem saving", "file", fname, "err", err)
		return "", err
	}
	Logger().Info("saved", "file", fname)
	return fname, nil
}

// safeWrite writes to a temp file then renames atomically
func safeWrite(c Canvas, fname string) error {
	dir := filepath.Dir(fname)
	if err := MaybeCreateDir(dir); err != nil {
		return err
	}

	var write func(string) error
	switch ext := filepath.Ext(fname); ext {
	case ".png":
		write = c.WritePNG
	case ".svg":
		write = c.WriteSVG
	case ".pdf":
		write = c.WritePDF
	default:
		return fmt.Errorf("unsupported file format %s", ext)
	}

	// Note: the folders here need to be on the same drive
	tmpfile, err := os.CreateTemp(dir, "arbor.*"+filepath.Ext(fname))
	if err != nil {
		return err
	}
	tmpfile.Close()
	if err := write(tmpfile.Name()); err != nil {
		os.Remove(tmpfile.Name())
		return err
	}
	if err := os.Rename(tmpfile.Name(), fname); err != nil {
		os.Remove(tmpfile.Name())
		return err
	}
	return os.Chmod(fname, 0664)
}

// MaybeCreateDir creates dir and its parents if missing.
func MaybeCreateDir(dir string) error {
	if dir == "" || dir == tmpFolder || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0775)
}
