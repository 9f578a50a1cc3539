// Package db defines persistence models for filmlog.
package db

import "fmt"

// Roll represents one unit of exposed film. The ID is user-assignable
// and doubles as the printed roll number.
type Roll struct {
	ID           int64
	FilmType     string
	ISO          int64 // 0 means not recorded
	Camera       string
	Lens         string
	DateStarted  string // ISO date (2006-01-02), empty when unset
	DateFinished string
	DateAdded    int64
	ContactSheet string // stored image filename, empty when none
	Notes        string
}

// FormattedID returns the roll number zero-padded to four digits,
// matching the printed labels.
func (r Roll) FormattedID() string { return fmt.Sprintf("%04d", r.ID) }

// Gear is an inventory item (camera, lens, etc.) in the gear log.
type Gear struct {
	ID           int64
	Name         string
	HardwareType string
	SerialNumber string
	CreatedAt    int64
}

// NameCount pairs a grouped name with its occurrence count, used by the
// stats page.
type NameCount struct {
	Name  string
	Count int64
}
