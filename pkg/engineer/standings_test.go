package engineer

import (
	"testing"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standingsTable(t *testing.T, fs ...fixture) *table.Table {
	t.Helper()
	tbl := buildTable(fs...)
	require.NoError(t, AddPoints(tbl))
	return tbl
}

func TestStandingsTieBreakOnGoalsScored(t *testing.T) {
	tbl := standingsTable(t,
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "A", away: "B", goals: [2]int{3, 1}},
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "C", away: "D", goals: [2]int{2, 0}},
		fixture{date: "2018-09-01", season: "2018-2019", matchweek: 2, home: "C", away: "B", goals: [2]int{0, 0}},
	)
	s, err := BuildStandings(tbl, "2018-2019", match.Bundesliga, 2)
	require.NoError(t, err)
	require.Len(t, s, 4)

	var order []string
	for _, st := range s {
		order = append(order, st.Team)
	}
	assert.Equal(t, []string{"A", "C", "B", "D"}, order)
	assert.Equal(t, 2, s[0].Difference())

	h, a, err := CurrentPosition(tbl, "C", "B", "2018-2019", match.Bundesliga, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, Position{Rank: 2, Status: Ranked}, h)
	assert.Equal(t, Position{Rank: 3, Status: Ranked}, a)
}

func TestStandingsFullTieOrdersByName(t *testing.T) {
	tbl := standingsTable(t,
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "Zeta", away: "Gamma", goals: [2]int{1, 0}},
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "Alpha", away: "Beta", goals: [2]int{1, 0}},
	)
	s, err := BuildStandings(tbl, "2018-2019", match.Bundesliga, 2)
	require.NoError(t, err)

	rank, ok := s.Rank("Alpha")
	assert.True(t, ok)
	assert.Equal(t, 1, rank)
	rank, _ = s.Rank("Zeta")
	assert.Equal(t, 2, rank)
	rank, _ = s.Rank("Beta")
	assert.Equal(t, 3, rank)
}

func TestStandingsAccumulateBothSides(t *testing.T) {
	tbl := standingsTable(t,
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "A", away: "B", goals: [2]int{0, 2}},
		fixture{date: "2018-09-01", season: "2018-2019", matchweek: 2, home: "B", away: "A", goals: [2]int{1, 1}},
		fixture{date: "2018-09-15", season: "2018-2019", matchweek: 3, home: "A", away: "B", goals: [2]int{5, 0}},
	)
	s, err := BuildStandings(tbl, "2018-2019", match.Bundesliga, 3)
	require.NoError(t, err)
	assert.Equal(t, Standing{Team: "B", Points: 4, Goals: 3, GoalsAgainst: 1}, s[0])
	assert.Equal(t, Standing{Team: "A", Points: 1, Goals: 1, GoalsAgainst: 3}, s[1])
}

func TestStandingsSkipUnplayedMatches(t *testing.T) {
	tbl := standingsTable(t,
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "A", away: "B", goals: [2]int{1, 0}},
		fixture{date: "2018-09-01", season: "2018-2019", matchweek: 2, home: "B", away: "A"},
	)
	require.NoError(t, tbl.Set(1, match.Home.Column(Points), table.Missing()))
	require.NoError(t, tbl.Set(1, match.Away.Column(Points), table.Missing()))

	s, err := BuildStandings(tbl, "2018-2019", match.Bundesliga, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s[0].Points)
	assert.Equal(t, 0, s[1].Points)
}

func TestCurrentPositionPlaceholders(t *testing.T) {
	tbl := standingsTable(t,
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "A", away: "B", goals: [2]int{1, 0}},
	)

	h, a, err := CurrentPosition(tbl, "A", "B", "2018-2019", match.Bundesliga, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, TooEarly, h.Status)
	assert.True(t, a.Cell().Equal(table.Missing()))

	h, _, err = CurrentPosition(tbl, "A", "B", "2019-2020", match.Bundesliga, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, Unranked, h.Status)
	assert.Equal(t, table.Unknown, h.Cell().String())

	h, a, err = CurrentPosition(tbl, "A", "Promoted", "2018-2019", match.Bundesliga, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Rank)
	assert.Equal(t, Unranked, a.Status)
}

func TestAddCurrentPosition(t *testing.T) {
	tbl := standingsTable(t,
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "A", away: "B", goals: [2]int{1, 0}},
		fixture{date: "2018-08-25", season: "2018-2019", matchweek: 1, home: "C", away: "D", goals: [2]int{3, 0}},
		fixture{date: "2018-09-01", season: "2018-2019", matchweek: 2, home: "B", away: "C", goals: [2]int{0, 0}},
		fixture{date: "2018-09-01", season: "2018-2019", matchweek: 2, home: "D", away: "A", goals: [2]int{0, 0}},
		fixture{date: "2018-09-15", season: "2018-2019", matchweek: 3, home: "A", away: "C", goals: [2]int{0, 0}},
	)
	require.NoError(t, AddCurrentPosition(tbl, 1))

	home, away := match.Home.Column(CurrentPositionColumn), match.Away.Column(CurrentPositionColumn)
	assert.True(t, tbl.Get(0, home).IsMissing())
	assert.Equal(t, "3", tbl.Text(2, home))
	assert.Equal(t, "1", tbl.Text(2, away))
	assert.Equal(t, "4", tbl.Text(3, home))
	assert.Equal(t, "2", tbl.Text(3, away))
	// C has 4 points and +3, A 4 points and +1
	assert.Equal(t, "2", tbl.Text(4, home))
	assert.Equal(t, "1", tbl.Text(4, away))

	require.NoError(t, AddCurrentPosition(tbl, 0))
	assert.Equal(t, table.Unknown, tbl.Text(0, home))
}

func TestAddCurrentPositionRequiresPoints(t *testing.T) {
	err := AddCurrentPosition(buildTable(), 3)
	assert.ErrorIs(t, err, table.ErrMissingColumn)
}
