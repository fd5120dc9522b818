package match

import (
	"testing"
	"time"

	"github.com/richard-senior/matchday/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeason(t *testing.T) {
	for in, want := range map[string]string{
		"2017-2018": "2017-2018",
		"2017/2018": "2017-2018",
		"2023/24":   "2023-2024",
		"1718":      "2017-2018",
	} {
		got, err := ParseSeason(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSeason("2017-2019")
	assert.Error(t, err)
	_, err = ParseSeason("spring")
	assert.Error(t, err)
}

func TestSeasonHelpers(t *testing.T) {
	assert.Equal(t, []string{"2019-2020", "2020-2021"}, SeasonsBetween(2019, 2021))
	y, err := FirstYear("2020/2021")
	require.NoError(t, err)
	assert.Equal(t, 2020, y)

	code, err := FootballDataSeason("2017-2018")
	require.NoError(t, err)
	assert.Equal(t, "1718", code)

	same, err := IsSameSeason("2017/18", "2017-2018")
	require.NoError(t, err)
	assert.True(t, same)
}

func TestNewPrimaryKey(t *testing.T) {
	d := time.Date(2017, 9, 17, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2017-09-17Bayer 04 LeverkusenSC Freiburg", NewPrimaryKey(d, "Bayer 04 Leverkusen", "SC Freiburg"))
	assert.Equal(t, "UNKNOWNUNKNOWNSC Freiburg", NewPrimaryKey(time.Time{}, "", "SC Freiburg"))
}

func TestSide(t *testing.T) {
	assert.Equal(t, "Away Goals", Home.Other().Column("Goals"))
	assert.Equal(t, "Home Team", Home.TeamColumn())
}

func TestCompetitionCodes(t *testing.T) {
	code, err := FootballDataCode(Bundesliga)
	require.NoError(t, err)
	assert.Equal(t, "D1", code)

	c, err := CompetitionForCode("E0")
	require.NoError(t, err)
	assert.Equal(t, PremierLeague, c)

	_, err = FootballDataCode("Eredivisie")
	assert.Error(t, err)
}

func row(key, season, competition string, matchweek int) map[string]table.Cell {
	return map[string]table.Cell{
		PrimaryKey:  table.Str(key),
		Season:      table.Str(season),
		Competition: table.Str(competition),
		Matchweek:   table.Int(matchweek),
		HomeTeam:    table.Str("A"),
		AwayTeam:    table.Str("B"),
	}
}

func TestValidate(t *testing.T) {
	tbl := table.New()
	tbl.Append(row("k1", "2017-2018", Bundesliga, 1))
	tbl.Append(row("k2", table.Unknown, table.Unknown, -1))
	require.NoError(t, Validate(tbl))

	dup := tbl.Clone()
	dup.Append(row("k1", "2017-2018", Bundesliga, 2))
	assert.ErrorContains(t, Validate(dup), "duplicate primary key")

	bad := tbl.Clone()
	bad.Append(row("k3", "2017-2018", Bundesliga, 0))
	assert.ErrorContains(t, Validate(bad), "out of range")

	unknown := tbl.Clone()
	unknown.Append(row("k4", "2017-2018", table.Unknown, 4))
	assert.Error(t, Validate(unknown))
}
