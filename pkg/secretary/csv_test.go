package secretary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matchesCSV = "\ufeffPrimary Key,Season,Home Team,Home Goals,Home Kick Off Before 17\n" +
	"2017-08-19Bayer 04 LeverkusenFC Bayern München,2017-2018,Bayer 04 Leverkusen,1,True\n" +
	"2017-08-26SC FreiburgBayer 04 Leverkusen,2017-2018,SC Freiburg,-1,False\n"

func TestReadCSVInfersCells(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(matchesCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{match.PrimaryKey, match.Season, match.HomeTeam, "Home Goals", "Home Kick Off Before 17"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, table.Int(1), tbl.Get(0, "Home Goals"))
	assert.True(t, tbl.Get(1, "Home Goals").IsMissing())
	assert.Equal(t, table.Flag(true), tbl.Get(0, "Home Kick Off Before 17"))
	assert.Equal(t, table.Str("2017-2018"), tbl.Get(0, match.Season))
}

func TestCSVRoundTrip(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(matchesCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	again, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.Equal(t, tbl.Columns(), again.Columns())
	for r := 0; r < tbl.Len(); r++ {
		assert.Equal(t, tbl.Row(r), again.Row(r))
	}
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestSaveAndLoadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(matchesCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "matches.csv")
	require.NoError(t, SaveCSV(path, tbl))
	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), loaded.Len())
	assert.Equal(t, tbl.Text(1, match.HomeTeam), loaded.Text(1, match.HomeTeam))

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestMergeKeepsUpdatedRows(t *testing.T) {
	base := table.New(match.PrimaryKey, match.Result)
	base.Append(map[string]table.Cell{match.PrimaryKey: table.Str("2017-08-26B"), match.Result: table.UnknownText()})
	base.Append(map[string]table.Cell{match.PrimaryKey: table.Str("2017-08-19A"), match.Result: table.Str("H")})

	update := table.New(match.PrimaryKey, match.Result, "Home Goals")
	update.Append(map[string]table.Cell{match.PrimaryKey: table.Str("2017-08-26B"), match.Result: table.Str("D"), "Home Goals": table.Int(2)})
	update.Append(map[string]table.Cell{match.PrimaryKey: table.Str("2017-09-02C"), match.Result: table.Str("A"), "Home Goals": table.Int(0)})

	merged, err := Merge(base, update)
	require.NoError(t, err)

	require.Equal(t, 3, merged.Len())
	assert.Equal(t, "2017-08-19A", merged.Text(0, match.PrimaryKey))
	assert.False(t, merged.Get(0, "Home Goals").IsSet())
	assert.Equal(t, "D", merged.Text(1, match.Result))
	assert.Equal(t, "2", merged.Text(1, "Home Goals"))
	assert.Equal(t, "2017-09-02C", merged.Text(2, match.PrimaryKey))

	_, err = Merge(table.New("Date"), update)
	assert.ErrorIs(t, err, table.ErrMissingColumn)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCoaches(t *testing.T) {
	path := writeFile(t, "coaches.csv", "Team,Coach,Started,Ended\n"+
		"SC Freiburg,Christian Streich,2011-12-29,2024-06-30\n"+
		"Bayer 04 Leverkusen,Heiko Herrlich,2017-07-01,2018-12-23\n")

	spells, err := LoadCoaches(path)
	require.NoError(t, err)
	require.Len(t, spells, 2)
	assert.Equal(t, "Christian Streich", spells[0].Coach)
	assert.Equal(t, time.Date(2018, 12, 23, 0, 0, 0, 0, time.UTC), spells[1].Ended)

	bad := writeFile(t, "bad.csv", "Team,Coach,Started,Ended\nSC Freiburg,Streich,2024-06-30,2011-12-29\n")
	_, err = LoadCoaches(bad)
	assert.Error(t, err)

	missing := writeFile(t, "missing.csv", "Team,Coach\nSC Freiburg,Streich\n")
	_, err = LoadCoaches(missing)
	assert.ErrorIs(t, err, table.ErrMissingColumn)
}

func TestLoadPromotions(t *testing.T) {
	path := writeFile(t, "promotions.csv", "Team,Is Promoted\nVfB Stuttgart,2017/2018\nHannover 96,1718\n")

	promotions, err := LoadPromotions(path)
	require.NoError(t, err)
	require.Len(t, promotions, 2)
	assert.Equal(t, "2017-2018", promotions[0].Season)
	assert.Equal(t, "2017-2018", promotions[1].Season)

	bad := writeFile(t, "bad.csv", "Team,Is Promoted\nVfB Stuttgart,last year\n")
	_, err = LoadPromotions(bad)
	assert.Error(t, err)
}
