package engineer

import (
	"fmt"
	"sort"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
)

// PositionStatus says whether a Position carries a rank
type PositionStatus int

const (
	Ranked PositionStatus = iota
	// TooEarly is returned up to and including the offset matchweek
	TooEarly
	// Unranked is returned when no earlier match of the season exists
	Unranked
)

// Position is a team's place in the table before a matchday
type Position struct {
	Rank   int
	Status PositionStatus
}

// Cell renders the rank, -1 when too early, UNKNOWN when unranked
func (p Position) Cell() table.Cell {
	switch p.Status {
	case Ranked:
		return table.Int(p.Rank)
	case TooEarly:
		return table.Missing()
	default:
		return table.UnknownText()
	}
}

// Standing is one line of a league table
type Standing struct {
	Team         string
	Points       int
	Goals        int
	GoalsAgainst int
}

func (s Standing) Difference() int {
	return s.Goals - s.GoalsAgainst
}

// Standings is a league table ordered by points, goal difference, goals and
// finally team name
type Standings []Standing

// Rank returns the 1-based position of team
func (s Standings) Rank(team string) (int, bool) {
	for i, st := range s {
		if st.Team == team {
			return i + 1, true
		}
	}
	return 0, false
}

func (s Standings) sort() {
	sort.Slice(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Difference() != b.Difference() {
			return a.Difference() > b.Difference()
		}
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		return a.Team < b.Team
	})
}

var standingsColumns = []string{
	match.Season, match.Competition, match.Matchweek, match.HomeTeam, match.AwayTeam,
	match.Home.Column(Points), match.Away.Column(Points),
	match.Home.Column(Goals), match.Away.Column(Goals),
}

// standingsBefore accumulates the given rows with a matchweek strictly below
// matchweek. Matches without a result (points of -1) are skipped.
func standingsBefore(t *table.Table, rows []int, matchweek int) (Standings, error) {
	byTeam := make(map[string]*Standing)
	line := func(team string) *Standing {
		s, ok := byTeam[team]
		if !ok {
			s = &Standing{Team: team}
			byTeam[team] = s
		}
		return s
	}

	for _, r := range rows {
		mw, err := t.Get(r, match.Matchweek).Int()
		if err != nil {
			return nil, fmt.Errorf("row %d matchweek: %w", r, err)
		}
		if mw >= matchweek {
			continue
		}
		var pts, goals [2]int
		for _, side := range match.Sides {
			if pts[side], err = t.Get(r, side.Column(Points)).Int(); err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
			if goals[side], err = t.Get(r, side.Column(Goals)).Int(); err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
		}
		if pts[match.Home] < 0 || pts[match.Away] < 0 || goals[match.Home] < 0 || goals[match.Away] < 0 {
			continue
		}
		for _, side := range match.Sides {
			s := line(t.Text(r, side.TeamColumn()))
			s.Points += pts[side]
			s.Goals += goals[side]
			s.GoalsAgainst += goals[side.Other()]
		}
	}

	if len(byTeam) == 0 {
		return nil, nil
	}
	out := make(Standings, 0, len(byTeam))
	for _, s := range byTeam {
		out = append(out, *s)
	}
	out.sort()
	return out, nil
}

// BuildStandings returns the table of a competition and season before matchweek.
// It is empty when no earlier match exists.
func BuildStandings(t *table.Table, season, competition string, matchweek int) (Standings, error) {
	if err := t.Require(standingsColumns...); err != nil {
		return nil, err
	}
	var rows []int
	for r := 0; r < t.Len(); r++ {
		if t.Text(r, match.Season) == season && t.Text(r, match.Competition) == competition {
			rows = append(rows, r)
		}
	}
	return standingsBefore(t, rows, matchweek)
}

func positions(s Standings, home, away string) (Position, Position) {
	if len(s) == 0 {
		return Position{Status: Unranked}, Position{Status: Unranked}
	}
	lookup := func(team string) Position {
		rank, ok := s.Rank(team)
		if !ok {
			return Position{Status: Unranked}
		}
		return Position{Rank: rank, Status: Ranked}
	}
	return lookup(home), lookup(away)
}

// CurrentPosition returns the table positions of both teams before matchweek.
// Up to offset the positions are TooEarly, without earlier matches Unranked.
func CurrentPosition(t *table.Table, home, away, season, competition string, matchweek, offset int) (Position, Position, error) {
	if matchweek <= offset {
		return Position{Status: TooEarly}, Position{Status: TooEarly}, nil
	}
	s, err := BuildStandings(t, season, competition, matchweek)
	if err != nil {
		return Position{}, Position{}, err
	}
	h, a := positions(s, home, away)
	return h, a, nil
}

// AddCurrentPosition writes Home/Away Current Position Before Matchday for
// every match. One table is built per season, competition and matchweek.
func AddCurrentPosition(t *table.Table, offset int) error {
	if err := t.Require(standingsColumns...); err != nil {
		return err
	}

	type group struct{ season, competition string }
	groups := make(map[group][]int)
	for r := 0; r < t.Len(); r++ {
		g := group{t.Text(r, match.Season), t.Text(r, match.Competition)}
		groups[g] = append(groups[g], r)
	}

	type query struct {
		group
		matchweek int
	}
	cache := make(map[query]Standings)

	home, away := match.Home.Column(CurrentPositionColumn), match.Away.Column(CurrentPositionColumn)
	t.AddColumn(home)
	t.AddColumn(away)

	for r := 0; r < t.Len(); r++ {
		mw, err := t.Get(r, match.Matchweek).Int()
		if err != nil {
			return fmt.Errorf("row %d matchweek: %w", r, err)
		}
		h, a := Position{Status: TooEarly}, Position{Status: TooEarly}
		if mw > offset {
			g := group{t.Text(r, match.Season), t.Text(r, match.Competition)}
			q := query{g, mw}
			s, ok := cache[q]
			if !ok {
				if s, err = standingsBefore(t, groups[g], mw); err != nil {
					return err
				}
				cache[q] = s
			}
			h, a = positions(s, t.Text(r, match.HomeTeam), t.Text(r, match.AwayTeam))
		}
		if err := t.Set(r, home, h.Cell()); err != nil {
			return err
		}
		if err := t.Set(r, away, a.Cell()); err != nil {
			return err
		}
	}

	logger.Debug("Built league tables", len(cache))
	return t.Complete(home, away)
}
