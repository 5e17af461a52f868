package database

import (
	"time"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// UpdateFilter selects re-classification candidates. ID wins over Source;
// neither selects every record.
type UpdateFilter struct {
	ID     *int64
	Source string
}

type ListFilter struct {
	Source   string
	Accident *bool
	Limit    int
}

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

type SourceStats struct {
	Source    string    `json:"source"`
	Total     int       `json:"total"`
	Accidents int       `json:"accidents"`
	Geocoded  int       `json:"geocoded"`
	Latest    time.Time `json:"latest"`
}

type sourceStatsRow struct {
	Source    string `db:"source"`
	Total     int    `db:"total"`
	Accidents int    `db:"accidents"`
	Geocoded  int    `db:"geocoded"`
	Latest    string `db:"latest"`
}
