// Package daemon wires the store, image directory, and web server
// together and runs them until shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/aussierobb78/Filmlog/internal/db"
	"github.com/aussierobb78/Filmlog/internal/httpserver"
	"github.com/aussierobb78/Filmlog/internal/images"
)

// lockName is the single-instance lock file inside the data directory.
const lockName = "filmlog.lock"

type Options struct {
	DataDir string

	// Fallback listen address, used until the settings table holds
	// persisted values.
	BindAddr string
	Port     int

	MaxUploadBytes int64

	Logger *slog.Logger
}

// Run starts the daemon and blocks until a signal arrives or the web
// shutdown endpoint is hit.
func Run(ctx context.Context, opt Options) error {
	if opt.DataDir == "" {
		return errors.New("data dir is required")
	}
	if opt.Logger == nil {
		return errors.New("logger is required")
	}
	lg := opt.Logger

	if err := os.MkdirAll(opt.DataDir, 0o755); err != nil {
		return err
	}

	// Two daemons sharing one data directory would fight over the
	// sqlite files, so refuse to start as a second instance.
	lock := flock.New(filepath.Join(opt.DataDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return errors.New("another filmlog instance is already using this data directory")
	}
	defer func() { _ = lock.Unlock() }()

	d, err := db.Open(ctx, opt.DataDir)
	if err != nil {
		return err
	}
	defer d.Close()

	host, port, err := listenSettings(ctx, d, opt)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(d, lg)
	if err != nil {
		return err
	}
	srv.DataDir = opt.DataDir
	srv.Images = &images.Store{Dir: filepath.Join(opt.DataDir, "Images")}
	srv.RunningHost = host
	srv.RunningPort = port
	srv.MaxUploadBytes = opt.MaxUploadBytes

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	srv.Shutdown = stop

	httpServer := &http.Server{
		Addr:              host + ":" + strconv.Itoa(port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	lg.Info("filmlog listening", "addr", httpServer.Addr, "data_dir", opt.DataDir)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shCtx); err != nil {
		return err
	}
	return nil
}

// listenSettings resolves the listen address: persisted settings win,
// the configured fallback fills the gaps.
func listenSettings(ctx context.Context, d *db.DB, opt Options) (string, int, error) {
	host := opt.BindAddr
	if host == "" {
		host = "0.0.0.0"
	}
	port := opt.Port
	if port == 0 {
		port = 5000
	}

	if v, ok, err := d.GetSetting(ctx, db.SettingServerHost); err != nil {
		return "", 0, err
	} else if ok {
		host = v
	}
	if v, ok, err := d.GetSetting(ctx, db.SettingServerPort); err != nil {
		return "", 0, err
	} else if ok {
		if p, perr := strconv.Atoi(v); perr == nil && p > 0 && p <= 65535 {
			port = p
		}
	}
	return host, port, nil
}
