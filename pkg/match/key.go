package match

import (
	"time"

	"github.com/richard-senior/matchday/pkg/table"
)

// NewPrimaryKey concatenates the ISO date and both team names. A zero date
// or an empty team name is replaced by UNKNOWN.
func NewPrimaryKey(date time.Time, home, away string) string {
	d := table.Unknown
	if !date.IsZero() {
		d = date.Format(DateLayout)
	}
	if home == "" {
		home = table.Unknown
	}
	if away == "" {
		away = table.Unknown
	}
	return d + home + away
}

// ParseDate reads the Date column format
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
