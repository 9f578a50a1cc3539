package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Known database filenames inside the data directory. Backup archives
// reference the same names at the archive top level.
const (
	FilmDBName = "filmlog.db"
	GearDBName = "gearlog.db"
)

// DB bundles the two sqlite files backing the app: the film log
// (rolls and settings) and the independent gear log.
type DB struct {
	film *sql.DB
	gear *sql.DB
}

// Open opens both database files under dataDir, creating the directory
// and applying migrations as needed.
func Open(ctx context.Context, dataDir string) (*DB, error) {
	if dataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	film, err := openFile(ctx, filepath.Join(dataDir, FilmDBName), "film")
	if err != nil {
		return nil, err
	}
	gear, err := openFile(ctx, filepath.Join(dataDir, GearDBName), "gear")
	if err != nil {
		_ = film.Close()
		return nil, err
	}
	return &DB{film: film, gear: gear}, nil
}

func openFile(ctx context.Context, path, migrations string) (*sql.DB, error) {
	// modernc SQLite uses a URI-like DSN; plain file paths are ok.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	s, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	s.SetMaxOpenConns(1)
	s.SetMaxIdleConns(1)
	s.SetConnMaxLifetime(0)

	if err := ping(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := setPragmas(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := Migrate(ctx, s, migrations); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Checkpoint flushes the write-ahead logs into the main database
// files, so copying filmlog.db and gearlog.db captures every write.
func (d *DB) Checkpoint(ctx context.Context) error {
	for _, s := range []*sql.DB{d.film, d.gear} {
		if _, err := s.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
			return err
		}
	}
	return nil
}

// Close releases both underlying database handles. Backup import calls
// this before overwriting the files on disk.
func (d *DB) Close() error {
	err := d.film.Close()
	if gerr := d.gear.Close(); err == nil {
		err = gerr
	}
	return err
}

func ping(ctx context.Context, s *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.PingContext(ctx)
}

func setPragmas(ctx context.Context, s *sql.DB) error {
	// WAL improves read concurrency for the web handlers.
	if _, err := s.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return err
	}
	_, err := s.ExecContext(ctx, "PRAGMA foreign_keys = ON;")
	return err
}

// nowUnix returns the current Unix timestamp in seconds.
func nowUnix() int64 { return time.Now().Unix() }
