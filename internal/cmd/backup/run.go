// Package backup implements the `filmlog backup` subcommand, writing
// the same archive the web backup endpoint serves.
package backup

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aussierobb78/Filmlog/internal/backup"
	"github.com/aussierobb78/Filmlog/internal/db"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "./Data", "data directory (databases and images)")
	out := fs.String("out", "", "output path (default: archive name in the current directory)")
	withImages := fs.Bool("images", true, "include the Images directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = backup.ArchiveName(*withImages, time.Now())
	}

	// Open the store once to flush any leftover WAL pages into the
	// database files before they are copied.
	ctx := context.Background()
	d, err := db.Open(ctx, *dataDir)
	if err != nil {
		return err
	}
	if err := d.Checkpoint(ctx); err != nil {
		_ = d.Close()
		return err
	}
	if err := d.Close(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	imagesDir := filepath.Join(*dataDir, "Images")
	if err := backup.Export(f, *dataDir, imagesDir, *withImages); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
