package engineer

import (
	"fmt"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
)

// Point is one match of a team's series
type Point struct {
	Key   string     // primary key of the match
	Side  match.Side // side the team played on
	Value table.Cell
}

// Extract returns the team's value of feature for every match it played, in
// table order. With against set the opponent's value is returned instead.
func Extract(t *table.Table, feature, team string, against bool) ([]Point, error) {
	if err := t.Require(match.HomeTeam, match.AwayTeam); err != nil {
		return nil, err
	}
	var rows []int
	for r := 0; r < t.Len(); r++ {
		if t.Text(r, match.HomeTeam) == team || t.Text(r, match.AwayTeam) == team {
			rows = append(rows, r)
		}
	}
	return extractRows(t, rows, feature, team, against)
}

// extractRows is Extract over rows already known to involve team
func extractRows(t *table.Table, rows []int, feature, team string, against bool) ([]Point, error) {
	home, away := match.Home.Column(feature), match.Away.Column(feature)
	if err := t.Require(match.PrimaryKey, match.HomeTeam, match.AwayTeam, home, away); err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		var side match.Side
		switch team {
		case t.Text(r, match.HomeTeam):
			side = match.Home
		case t.Text(r, match.AwayTeam):
			side = match.Away
		default:
			return nil, fmt.Errorf("%s did not play in %s", team, t.Text(r, match.PrimaryKey))
		}
		source := side
		if against {
			source = side.Other()
		}
		points = append(points, Point{
			Key:   t.Text(r, match.PrimaryKey),
			Side:  side,
			Value: t.Get(r, source.Column(feature)),
		})
	}
	return points, nil
}

func values(points []Point) []table.Cell {
	out := make([]table.Cell, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
