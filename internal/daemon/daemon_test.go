package daemon

import (
	"context"
	"testing"

	"github.com/aussierobb78/Filmlog/internal/db"
)

func TestListenSettingsPrefersPersistedValues(t *testing.T) {
	ctx := context.Background()
	d, err := db.Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	opt := Options{BindAddr: "0.0.0.0", Port: 5000}

	host, port, err := listenSettings(ctx, d, opt)
	if err != nil {
		t.Fatalf("listenSettings: %v", err)
	}
	if host != "0.0.0.0" || port != 5000 {
		t.Fatalf("defaults: got %s:%d", host, port)
	}

	if err := d.SetSetting(ctx, db.SettingServerHost, "127.0.0.1"); err != nil {
		t.Fatalf("set host: %v", err)
	}
	if err := d.SetSetting(ctx, db.SettingServerPort, "8080"); err != nil {
		t.Fatalf("set port: %v", err)
	}

	host, port, err = listenSettings(ctx, d, opt)
	if err != nil {
		t.Fatalf("listenSettings: %v", err)
	}
	if host != "127.0.0.1" || port != 8080 {
		t.Fatalf("persisted: got %s:%d", host, port)
	}
}

func TestListenSettingsIgnoresBadPort(t *testing.T) {
	ctx := context.Background()
	d, err := db.Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := d.SetSetting(ctx, db.SettingServerPort, "not-a-port"); err != nil {
		t.Fatalf("set port: %v", err)
	}

	_, port, err := listenSettings(ctx, d, Options{Port: 5000})
	if err != nil {
		t.Fatalf("listenSettings: %v", err)
	}
	if port != 5000 {
		t.Fatalf("port = %d, want fallback 5000", port)
	}
}
