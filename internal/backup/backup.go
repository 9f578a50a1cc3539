// Package backup packs the two database files and the image directory
// into a zip archive and restores such archives in place.
package backup

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aussierobb78/Filmlog/internal/db"
)

// ImagesPrefix is the archive folder holding contact-sheet images.
const ImagesPrefix = "Images/"

var ErrUnsafeEntry = errors.New("archive entry escapes destination")

// dbNames are the only top-level archive entries restored into the
// data directory.
var dbNames = map[string]bool{
	db.FilmDBName: true,
	db.GearDBName: true,
}

// ArchiveName returns the download filename for an export taken now,
// indicating whether images were included.
func ArchiveName(includeImages bool, now time.Time) string {
	date := now.Format("2006-01-02")
	if includeImages {
		return fmt.Sprintf("FilmLog_Full_Backup_%s.zip", date)
	}
	return fmt.Sprintf("FilmLog_Data_Backup_%s.zip", date)
}

// Export writes a full backup archive to w: each database file that
// exists at the top level, and optionally every image under Images/.
func Export(w io.Writer, dataDir, imagesDir string, includeImages bool) error {
	zw := zip.NewWriter(w)

	for name := range dbNames {
		p := filepath.Join(dataDir, name)
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := addFile(zw, p, name); err != nil {
			return err
		}
	}

	if includeImages {
		entries, err := os.ReadDir(imagesDir)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			p := filepath.Join(imagesDir, e.Name())
			if err := addFile(zw, p, ImagesPrefix+e.Name()); err != nil {
				return err
			}
		}
	}

	return zw.Close()
}

// Import extracts a backup archive into the data and image directories.
// Entries with traversal patterns are rejected outright; entries that
// match neither a known database name nor the Images/ prefix are
// ignored. Existing files are overwritten; the operation is not
// transactional. Callers must close open database handles first.
func Import(r io.ReaderAt, size int64, dataDir, imagesDir string) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return err
	}

	for _, f := range zr.File {
		name := f.Name
		if strings.Contains(name, "..") || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
			return fmt.Errorf("%w: %s", ErrUnsafeEntry, name)
		}

		var target string
		switch {
		case dbNames[name]:
			target = filepath.Join(dataDir, name)
		case strings.HasPrefix(name, ImagesPrefix):
			// Flatten: the archive stores Images/<filename>.
			base := filepath.Base(filepath.FromSlash(name))
			if base == "." || base == string(filepath.Separator) || strings.HasSuffix(name, "/") {
				continue
			}
			target = filepath.Join(imagesDir, base)
		default:
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func addFile(zw *zip.Writer, path, arcname string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(arcname)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
