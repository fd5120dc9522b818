package engineer

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
)

// AddPoints writes Home/Away Points from Result. A match without a result
// scores -1 for both sides.
func AddPoints(t *table.Table) error {
	if err := t.Require(match.Result); err != nil {
		return err
	}
	home, away := match.Home.Column(Points), match.Away.Column(Points)
	t.AddColumn(home)
	t.AddColumn(away)

	for r := 0; r < t.Len(); r++ {
		var h, a int
		switch result := t.Text(r, match.Result); result {
		case match.HomeWin:
			h, a = 3, 0
		case match.Draw:
			h, a = 1, 1
		case match.AwayWin:
			h, a = 0, 3
		case "", table.Unknown:
			h, a = -1, -1
		default:
			return fmt.Errorf("%w: result %q in row %d", table.ErrType, result, r)
		}
		if err := t.Set(r, home, table.Int(h)); err != nil {
			return err
		}
		if err := t.Set(r, away, table.Int(a)); err != nil {
			return err
		}
	}
	return t.Complete(home, away)
}

// AddDaysSinceLastGame writes the days since each team's previous match.
// History runs across seasons; a team's very first match gets -1.
func AddDaysSinceLastGame(t *table.Table) error {
	if err := t.Require(match.PrimaryKey, match.HomeTeam, match.AwayTeam, match.Date); err != nil {
		return err
	}
	if err := t.SortBy(match.PrimaryKey); err != nil {
		return err
	}
	parts, err := partitions(t, false)
	if err != nil {
		return err
	}

	var series [][]Point
	for _, p := range parts {
		points := make([]Point, 0, len(p.rows))
		var previous time.Time
		for i, r := range p.rows {
			date, err := match.ParseDate(t.Text(r, match.Date))
			if err != nil {
				return fmt.Errorf("%w: row %d date: %v", table.ErrType, r, err)
			}
			value := table.Missing()
			if i > 0 {
				value = table.Num(date.Sub(previous).Hours() / 24)
			}
			previous = date

			side := match.Home
			if t.Text(r, match.AwayTeam) == p.team {
				side = match.Away
			}
			points = append(points, Point{Key: t.Text(r, match.PrimaryKey), Side: side, Value: value})
		}
		series = append(series, points)
	}

	return Scatter(t, match.Home.Column(DaysSinceLast), match.Away.Column(DaysSinceLast), series...)
}

// SetMaximum clips both sides of a numeric feature at threshold
func SetMaximum(t *table.Table, feature string, threshold float64) error {
	for _, side := range match.Sides {
		col := side.Column(feature)
		if err := t.Require(col); err != nil {
			return err
		}
		for r := 0; r < t.Len(); r++ {
			v, err := t.Get(r, col).Float()
			if err != nil {
				return fmt.Errorf("%s row %d: %w", col, r, err)
			}
			if err := t.Set(r, col, table.Num(min(v, threshold))); err != nil {
				return err
			}
		}
	}
	return nil
}

// CoachSpell is a coach's tenure at a team, both dates inclusive
type CoachSpell struct {
	Team    string
	Coach   string
	Started time.Time
	Ended   time.Time
}

func (s CoachSpell) covers(team string, date time.Time) bool {
	return s.Team == team && !date.Before(s.Started) && !date.After(s.Ended)
}

// AddCoach writes Home/Away Coach. The first spell covering the match date
// wins, matches without one get UNKNOWN.
func AddCoach(t *table.Table, spells []CoachSpell) error {
	if err := t.Require(match.HomeTeam, match.AwayTeam, match.Date); err != nil {
		return err
	}
	byTeam := make(map[string][]CoachSpell)
	for _, s := range spells {
		byTeam[s.Team] = append(byTeam[s.Team], s)
	}

	for _, side := range match.Sides {
		col := side.Column(Coach.Name)
		t.AddColumn(col)
		unknown := 0
		for r := 0; r < t.Len(); r++ {
			date, err := match.ParseDate(t.Text(r, match.Date))
			if err != nil {
				return fmt.Errorf("%w: row %d date: %v", table.ErrType, r, err)
			}
			team := t.Text(r, side.TeamColumn())
			coach := table.UnknownText()
			for _, s := range byTeam[team] {
				if s.covers(team, date) {
					coach = table.Str(s.Coach)
					break
				}
			}
			if coach.IsMissing() {
				unknown++
			}
			if err := t.Set(r, col, coach); err != nil {
				return err
			}
		}
		if unknown > 0 {
			logger.Debug(col, "unknown for", unknown, "matches")
		}
	}
	return t.Complete(match.Home.Column(Coach.Name), match.Away.Column(Coach.Name))
}

// Promotion records a team promoted into its league for Season
type Promotion struct {
	Team   string
	Season string
}

// AddPromotedLastYear writes Home/Away Promoted Last Year. Seasons without
// any recorded promotion are UNKNOWN.
func AddPromotedLastYear(t *table.Table, promotions []Promotion) error {
	if err := t.Require(match.HomeTeam, match.AwayTeam, match.Season); err != nil {
		return err
	}
	promoted := make(map[string]map[string]bool)
	for _, p := range promotions {
		if !match.IsSeason(p.Season) {
			return fmt.Errorf("%w: promotion of %s in season %q", table.ErrType, p.Team, p.Season)
		}
		if promoted[p.Season] == nil {
			promoted[p.Season] = make(map[string]bool)
		}
		promoted[p.Season][p.Team] = true
	}

	home, away := match.Home.Column(PromotedLastYear), match.Away.Column(PromotedLastYear)
	t.AddColumn(home)
	t.AddColumn(away)
	for r := 0; r < t.Len(); r++ {
		season := t.Text(r, match.Season)
		if !match.IsSeason(season) {
			return fmt.Errorf("%w: season %q in row %d", table.ErrType, season, r)
		}
		teams, ok := promoted[season]
		for _, side := range match.Sides {
			value := table.UnknownText()
			if ok {
				value = table.Flag(teams[t.Text(r, side.TeamColumn())])
			}
			if err := t.Set(r, side.Column(PromotedLastYear), value); err != nil {
				return err
			}
		}
	}
	return t.Complete(home, away)
}

var kickOffPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// AddKickOffBefore flags matches kicking off before hour. Every Kick Off must
// be HH:MM.
func AddKickOffBefore(t *table.Table, hour int) error {
	if err := t.Require(match.KickOff); err != nil {
		return err
	}
	col := KickOffBeforeColumn(hour)
	t.AddColumn(col)
	for r := 0; r < t.Len(); r++ {
		kickOff := t.Text(r, match.KickOff)
		if !kickOffPattern.MatchString(kickOff) {
			return fmt.Errorf("%w: kick off %q in row %d", table.ErrType, kickOff, r)
		}
		h, _ := strconv.Atoi(kickOff[:2])
		if err := t.Set(r, col, table.Flag(h < hour)); err != nil {
			return err
		}
	}
	return t.Complete(col)
}

// UnusableFeatures lists the raw per-match columns that are only known once
// a match has been played
func UnusableFeatures(features []string) []string {
	out := make([]string, 0, 2*len(features))
	for _, f := range features {
		out = append(out, match.Home.Column(f), match.Away.Column(f))
	}
	return out
}

// PrepareForModel drops the unusable features and the first offset
// matchweeks, whose aggregates are mostly fill values
func PrepareForModel(t *table.Table, features []string, offset int) (*table.Table, error) {
	if err := t.Require(match.Matchweek); err != nil {
		return nil, err
	}
	var bad error
	out := t.Filter(func(r int) bool {
		mw, err := t.Get(r, match.Matchweek).Int()
		if err != nil && bad == nil {
			bad = fmt.Errorf("row %d matchweek: %w", r, err)
		}
		return err == nil && mw > offset
	})
	if bad != nil {
		return nil, bad
	}
	out.Drop(UnusableFeatures(features)...)
	return out, nil
}
