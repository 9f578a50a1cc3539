package db

import (
	"context"
	"database/sql"
	"errors"
)

// CreateGear inserts a gear item and returns its database id.
func (d *DB) CreateGear(ctx context.Context, name, hardwareType, serialNumber string) (int64, error) {
	if name == "" || hardwareType == "" {
		return 0, errors.New("name and hardware type are required")
	}
	res, err := d.gear.ExecContext(ctx, `
INSERT INTO gear(name, hardware_type, serial_number, created_at) VALUES(?, ?, ?, ?)
`, name, hardwareType, serialNumber, nowUnix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListGear returns all gear sorted by hardware category, then name.
func (d *DB) ListGear(ctx context.Context) ([]Gear, error) {
	rows, err := d.gear.QueryContext(ctx, `
SELECT id, name, hardware_type, serial_number, created_at
FROM gear ORDER BY hardware_type ASC, name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Gear
	for rows.Next() {
		var g Gear
		if err := rows.Scan(&g.ID, &g.Name, &g.HardwareType, &g.SerialNumber, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGear looks up a gear item by id. The boolean reports existence.
func (d *DB) GetGear(ctx context.Context, id int64) (*Gear, bool, error) {
	var g Gear
	err := d.gear.QueryRowContext(ctx, `
SELECT id, name, hardware_type, serial_number, created_at FROM gear WHERE id=?
`, id).Scan(&g.ID, &g.Name, &g.HardwareType, &g.SerialNumber, &g.CreatedAt)
	if err == nil {
		return &g, true, nil
	}
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	return nil, false, err
}

// DeleteGear removes a gear item by id.
func (d *DB) DeleteGear(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid gear id")
	}
	_, err := d.gear.ExecContext(ctx, `DELETE FROM gear WHERE id=?`, id)
	return err
}
