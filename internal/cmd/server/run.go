// Package server implements the `filmlog server` subcommand.
package server

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/aussierobb78/Filmlog/internal/config"
	"github.com/aussierobb78/Filmlog/internal/daemon"
	"github.com/aussierobb78/Filmlog/internal/logging"
	"github.com/aussierobb78/Filmlog/internal/version"
)

type Options struct {
	ConfigPath string
	LogLevel   string
	LogJSON    bool

	DataDir     string
	BindAddr    string
	Port        int
	MaxUploadMB int
}

func Run(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var opt Options
	var showVersion bool
	fs.StringVar(&opt.ConfigPath, "config", "", "path to filmlog.yaml (when set, other flags are ignored)")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	fs.StringVar(&opt.LogLevel, "log-level", "info", "log level: debug|info|warning|error")
	fs.BoolVar(&opt.LogJSON, "log-json", false, "emit JSON logs")
	fs.StringVar(&opt.DataDir, "data-dir", "./Data", "data directory (databases and images)")
	fs.StringVar(&opt.BindAddr, "bind", "0.0.0.0", "fallback bind address until preferences are saved")
	fs.IntVar(&opt.Port, "port", 5000, "fallback web port until preferences are saved")
	fs.IntVar(&opt.MaxUploadMB, "max-upload-mb", 64, "request body limit in megabytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if showVersion {
		fmt.Printf("filmlog server %s\n", version.Version)
		return nil
	}

	if opt.ConfigPath != "" {
		c, err := config.Load(opt.ConfigPath)
		if err != nil {
			return err
		}
		base := filepath.Dir(opt.ConfigPath)
		lg, _, err := logging.New(logging.Options{Level: c.Log.Level, JSON: c.Log.JSON, DefaultSlog: true})
		if err != nil {
			return err
		}
		return daemon.Run(context.Background(), daemon.Options{
			DataDir:        resolvePath(base, c.DataDir),
			BindAddr:       c.HTTP.Bind,
			Port:           c.HTTP.Port,
			MaxUploadBytes: int64(c.HTTP.MaxUploadMB) << 20,
			Logger:         lg,
		})
	}

	lg, _, err := logging.New(logging.Options{Level: opt.LogLevel, JSON: opt.LogJSON, DefaultSlog: true})
	if err != nil {
		return err
	}
	return daemon.Run(context.Background(), daemon.Options{
		DataDir:        opt.DataDir,
		BindAddr:       opt.BindAddr,
		Port:           opt.Port,
		MaxUploadBytes: int64(opt.MaxUploadMB) << 20,
		Logger:         lg,
	})
}

// resolvePath anchors relative config paths at the config file's dir.
func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
