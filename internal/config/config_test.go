// Package config tests validate config loading behavior.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadAppliesDefaults confirms defaults are applied on load.
func TestLoadAppliesDefaults(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "filmlog.yaml")
	if err := os.WriteFile(p, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Port != 5000 {
		t.Fatalf("expected default http.port 5000, got %d", c.HTTP.Port)
	}
	if c.HTTP.Bind != "0.0.0.0" {
		t.Fatalf("expected default bind, got %q", c.HTTP.Bind)
	}
	if c.DataDir != "./Data" {
		t.Fatalf("expected data_dir default, got %q", c.DataDir)
	}
	if c.Log.Level != "debug" {
		t.Fatalf("expected explicit log level kept, got %q", c.Log.Level)
	}
}

// TestLoadRejectsBadPort surfaces invalid port values.
func TestLoadRejectsBadPort(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "filmlog.yaml")
	if err := os.WriteFile(p, []byte("http:\n  port: 99999\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for out-of-range port")
	}
}
