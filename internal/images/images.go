// Package images ingests uploaded contact-sheet scans: it validates the
// extension, flattens and downsizes the pixels, and writes the result
// into the image directory under a collision-resistant name.
package images

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/aussierobb78/Filmlog/internal/fsutil"
)

// Contact sheets are bounded to a 4K box; larger scans are shrunk to
// fit, smaller ones are stored as-is.
const (
	MaxWidth  = 3840
	MaxHeight = 2160

	jpegQuality = 85
)

var ErrBadExtension = errors.New("file extension not allowed")

// allowedExt lists accepted upload extensions (lowercase, with dot).
var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Store writes contact-sheet images into a single flat directory.
type Store struct {
	Dir string
}

// Allowed reports whether the filename carries an accepted extension.
func Allowed(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// Save decodes an uploaded image, fits it within the 4K bounding box
// preserving aspect ratio (never upscaling or cropping), re-encodes it,
// and stores it under a timestamped sanitized name. It returns the
// stored filename.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", ErrBadExtension
	}

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	img := flatten(src)
	b := img.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), fsutil.SanitizeFilename(originalName))
	path := filepath.Join(s.Dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	switch ext {
	case ".png":
		err = imaging.Encode(f, img, imaging.PNG)
	default:
		err = imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("encode image: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image, ignoring files that are already gone.
func (s *Store) Remove(name string) error {
	safe, err := fsutil.BaseName(name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.Dir, safe))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path resolves a stored filename to its on-disk path, rejecting names
// with directory components.
func (s *Store) Path(name string) (string, error) {
	safe, err := fsutil.BaseName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, safe), nil
}

// flatten composites any transparency onto white and drops palette
// encodings, so the JPEG encoder always gets opaque RGB pixels.
func flatten(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), image.White.C)
	return imaging.OverlayCenter(dst, src, 1.0)
}
