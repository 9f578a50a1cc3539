// Package images tests cover ingestion, resizing, and removal.
package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return &buf
}

// TestSaveRejectsBadExtension blocks anything outside the allow-list.
func TestSaveRejectsBadExtension(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if _, err := s.Save(encodePNG(t, img), "scan.gif"); err != ErrBadExtension {
		t.Fatalf("expected ErrBadExtension, got %v", err)
	}
	if !Allowed("SCAN.JPG") {
		t.Fatalf("extension check should be case-insensitive")
	}
	if Allowed("scan.tiff") {
		t.Fatalf("tiff should not be allowed")
	}
}

// TestSaveKeepsSmallImages confirms small uploads are never upscaled.
func TestSaveKeepsSmallImages(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	name, err := s.Save(encodePNG(t, img), "tiny scan.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, "_tiny_scan.png") {
		t.Fatalf("unexpected stored name %q", name)
	}

	stored, err := imaging.Open(filepath.Join(s.Dir, name))
	if err != nil {
		t.Fatalf("open stored: %v", err)
	}
	b := stored.Bounds()
	if b.Dx() != 12 || b.Dy() != 8 {
		t.Fatalf("small image was resized to %dx%d", b.Dx(), b.Dy())
	}
}

// TestSaveFitsLargeImages shrinks oversized scans into the 4K box while
// preserving aspect ratio.
func TestSaveFitsLargeImages(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	img := image.NewNRGBA(image.Rect(0, 0, 4000, 1000))
	name, err := s.Save(encodePNG(t, img), "big.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored, err := imaging.Open(filepath.Join(s.Dir, name))
	if err != nil {
		t.Fatalf("open stored: %v", err)
	}
	b := stored.Bounds()
	if b.Dx() != 3840 || b.Dy() != 960 {
		t.Fatalf("expected 3840x960, got %dx%d", b.Dx(), b.Dy())
	}
}

// TestSaveFlattensTransparency composites alpha onto an opaque white
// background before encoding.
func TestSaveFlattensTransparency(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2)) // fully transparent
	name, err := s.Save(encodePNG(t, img), "clear.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored, err := imaging.Open(filepath.Join(s.Dir, name))
	if err != nil {
		t.Fatalf("open stored: %v", err)
	}
	r, g, b, _ := stored.At(0, 0).RGBA()
	white := color.White
	wr, wg, wb, _ := white.RGBA()
	// JPEG is lossy; allow a small delta from pure white.
	for _, pair := range [][2]uint32{{r, wr}, {g, wg}, {b, wb}} {
		d := int64(pair[0]) - int64(pair[1])
		if d < 0 {
			d = -d
		}
		if d > 1<<10 {
			t.Fatalf("expected near-white pixel, got %d vs %d", pair[0], pair[1])
		}
	}
}

// TestRemoveIgnoresMissing keeps roll deletion best-effort.
func TestRemoveIgnoresMissing(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	if err := s.Remove("never_existed.jpg"); err != nil {
		t.Fatalf("Remove of missing file should not fail: %v", err)
	}
	if err := s.Remove("../escape.jpg"); err == nil {
		t.Fatalf("expected rejection of traversal name")
	}

	p := filepath.Join(s.Dir, "real.jpg")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Remove("real.jpg"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("expected file removed")
	}
}
