package db

import (
	"context"
	"database/sql"
	"errors"
)

// Setting keys used by the app.
const (
	SettingGearLog    = "enable_gearlog"
	SettingServerPort = "server_port"
	SettingServerHost = "server_host"
)

// GetSetting fetches a single settings key.
// The boolean indicates whether the key exists.
func (d *DB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := d.film.QueryRowContext(ctx, "SELECT value FROM app_settings WHERE key = ?", key).Scan(&v)
	if err == nil {
		return v, true, nil
	}
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	return "", false, err
}

// SetSetting upserts a settings key/value pair in one statement.
func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("setting key is required")
	}
	_, err := d.film.ExecContext(ctx, `
INSERT INTO app_settings(key, value, updated_at) VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value, nowUnix())
	return err
}

// GetFlag reads a boolean feature flag. Absent keys read as false.
func (d *DB) GetFlag(ctx context.Context, key string) (bool, error) {
	v, ok, err := d.GetSetting(ctx, key)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// ToggleFlag flips a boolean flag in a single upsert: an absent key is
// created as "true", an existing one is inverted.
func (d *DB) ToggleFlag(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("setting key is required")
	}
	_, err := d.film.ExecContext(ctx, `
INSERT INTO app_settings(key, value, updated_at) VALUES(?, 'true', ?)
ON CONFLICT(key) DO UPDATE SET
  value = CASE app_settings.value WHEN 'true' THEN 'false' ELSE 'true' END,
  updated_at = excluded.updated_at
`, key, nowUnix())
	return err
}
