package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrRollExists reports an insert with an id that is already taken.
var ErrRollExists = errors.New("roll id already exists")

const rollColumns = `id, film_type, COALESCE(iso, 0), camera, lens, date_started, date_finished, date_added, contact_sheet, notes`

// CreateRoll inserts a roll with its user-assigned id in a single
// statement; the primary key constraint rejects duplicates, so there is
// no racy existence check beforehand.
func (d *DB) CreateRoll(ctx context.Context, r *Roll) error {
	if r.ID <= 0 {
		return errors.New("roll id must be positive")
	}
	if r.FilmType == "" {
		return errors.New("film type is required")
	}
	_, err := d.film.ExecContext(ctx, `
INSERT INTO rolls(id, film_type, iso, camera, lens, date_started, date_finished, date_added, contact_sheet, notes)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, r.ID, r.FilmType, nullableInt(r.ISO), r.Camera, r.Lens, r.DateStarted, r.DateFinished, nowUnix(), r.ContactSheet, r.Notes)
	if isUniqueViolation(err) {
		return ErrRollExists
	}
	return err
}

// GetRoll looks up a roll by id. The boolean reports existence.
func (d *DB) GetRoll(ctx context.Context, id int64) (*Roll, bool, error) {
	var r Roll
	err := d.film.QueryRowContext(ctx, `
SELECT `+rollColumns+` FROM rolls WHERE id=?
`, id).Scan(&r.ID, &r.FilmType, &r.ISO, &r.Camera, &r.Lens, &r.DateStarted, &r.DateFinished, &r.DateAdded, &r.ContactSheet, &r.Notes)
	if err == nil {
		return &r, true, nil
	}
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	return nil, false, err
}

// ListRecentRolls returns the n most recently numbered rolls.
func (d *DB) ListRecentRolls(ctx context.Context, n int) ([]Roll, error) {
	return d.queryRolls(ctx, `SELECT `+rollColumns+` FROM rolls ORDER BY id DESC LIMIT ?`, n)
}

// SearchRolls matches the index search box: an all-digits query is an
// exact id lookup, anything else substring-matches film stock or camera.
func (d *DB) SearchRolls(ctx context.Context, q string) ([]Roll, error) {
	if id, ok := numericQuery(q); ok {
		r, found, err := d.GetRoll(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return []Roll{*r}, nil
	}
	pat := "%" + q + "%"
	return d.queryRolls(ctx, `
SELECT `+rollColumns+` FROM rolls WHERE film_type LIKE ? OR camera LIKE ? ORDER BY id DESC
`, pat, pat)
}

// UpdateRoll overwrites all mutable fields of an existing roll.
func (d *DB) UpdateRoll(ctx context.Context, r *Roll) error {
	if r.ID <= 0 {
		return errors.New("invalid roll id")
	}
	_, err := d.film.ExecContext(ctx, `
UPDATE rolls SET film_type=?, iso=?, camera=?, lens=?, date_started=?, date_finished=?, contact_sheet=?, notes=? WHERE id=?
`, r.FilmType, nullableInt(r.ISO), r.Camera, r.Lens, r.DateStarted, r.DateFinished, r.ContactSheet, r.Notes, r.ID)
	return err
}

// DeleteRoll removes a roll by id.
func (d *DB) DeleteRoll(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid roll id")
	}
	_, err := d.film.ExecContext(ctx, `DELETE FROM rolls WHERE id=?`, id)
	return err
}

// NextRollID suggests the next free roll number for the add form.
func (d *DB) NextRollID(ctx context.Context) (int64, error) {
	var max int64
	err := d.film.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM rolls`).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// DistinctFilms returns film stock names for form autocomplete.
func (d *DB) DistinctFilms(ctx context.Context) ([]string, error) {
	return d.distinctColumn(ctx, "film_type")
}

// DistinctCameras returns camera names for form autocomplete.
func (d *DB) DistinctCameras(ctx context.Context) ([]string, error) {
	return d.distinctColumn(ctx, "camera")
}

// DistinctLenses returns lens names for form autocomplete.
func (d *DB) DistinctLenses(ctx context.Context) ([]string, error) {
	return d.distinctColumn(ctx, "lens")
}

// CountRolls returns the total number of rolls.
func (d *DB) CountRolls(ctx context.Context) (int64, error) {
	var n int64
	err := d.film.QueryRowContext(ctx, `SELECT COUNT(*) FROM rolls`).Scan(&n)
	return n, err
}

// TopCameras returns the n most used cameras with counts.
func (d *DB) TopCameras(ctx context.Context, n int) ([]NameCount, error) {
	return d.topColumn(ctx, "camera", n)
}

// TopFilms returns the n most used film stocks with counts.
func (d *DB) TopFilms(ctx context.Context, n int) ([]NameCount, error) {
	return d.topColumn(ctx, "film_type", n)
}

func (d *DB) queryRolls(ctx context.Context, query string, args ...any) ([]Roll, error) {
	rows, err := d.film.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Roll
	for rows.Next() {
		var r Roll
		if err := rows.Scan(&r.ID, &r.FilmType, &r.ISO, &r.Camera, &r.Lens, &r.DateStarted, &r.DateFinished, &r.DateAdded, &r.ContactSheet, &r.Notes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// distinctColumn is only ever called with fixed column names.
func (d *DB) distinctColumn(ctx context.Context, col string) ([]string, error) {
	rows, err := d.film.QueryContext(ctx, `SELECT DISTINCT `+col+` FROM rolls WHERE `+col+` != '' ORDER BY `+col+` ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) topColumn(ctx context.Context, col string, n int) ([]NameCount, error) {
	rows, err := d.film.QueryContext(ctx, `
SELECT `+col+`, COUNT(*) c FROM rolls WHERE `+col+` != '' GROUP BY `+col+` ORDER BY c DESC LIMIT ?
`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

// numericQuery parses an all-digits search query, tolerating the
// zero-padded form printed on labels ("0004" matches roll 4).
func numericQuery(q string) (int64, bool) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, false
	}
	var id int64
	for _, c := range q {
		if c < '0' || c > '9' {
			return 0, false
		}
		id = id*10 + int64(c-'0')
		if id > 1<<31 {
			return 0, false
		}
	}
	return id, true
}

// nullableInt maps 0 to NULL so unset ISO values stay NULL on disk.
func nullableInt(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

// isUniqueViolation identifies sqlite unique/primary-key constraint
// errors. modernc/sqlite surfaces them as strings containing these.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint") || strings.Contains(s, "constraint failed")
}
