// Package match describes the canonical match record shared by every stage
// of the pipeline: its column names, primary key, season and competition.
package match

import "fmt"

const (
	PrimaryKey  = "Primary Key"
	Date        = "Date"
	Season      = "Season"
	Competition = "Competition"
	Matchweek   = "Matchweek"
	HomeTeam    = "Home Team"
	AwayTeam    = "Away Team"
	Result      = "Result"
	KickOff     = "Kick Off"
	HomeOdds    = "Home Odds"
	DrawOdds    = "Deuce Odds"
	AwayOdds    = "Away Odds"
)

// DateLayout is the ISO date used in Date and the primary key
const DateLayout = "2006-01-02"

// Side is the venue a team played on
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Home {
		return "Home"
	}
	return "Away"
}

// Other returns the opposing side
func (s Side) Other() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Column returns the paired column name for feature on this side, e.g. "Home Goals"
func (s Side) Column(feature string) string {
	return fmt.Sprintf("%s %s", s, feature)
}

// TeamColumn returns "Home Team" or "Away Team"
func (s Side) TeamColumn() string {
	return s.Column("Team")
}

// Sides is Home then Away
var Sides = [2]Side{Home, Away}

// Result codes
const (
	HomeWin = "H"
	Draw    = "D"
	AwayWin = "A"
)
