package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/richard-senior/matchday/pkg/secretary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const played = "Primary Key,Season,Competition,Matchweek,Home Team,Away Team,Home Goals,Away Goals,Home Points,Away Points\n" +
	"2017-08-18FC Bayern MünchenBayer 04 Leverkusen,2017-2018,Bundesliga,1,FC Bayern München,Bayer 04 Leverkusen,3,1,3,0\n" +
	"2017-08-19SC FreiburgEintracht Frankfurt,2017-2018,Bundesliga,1,SC Freiburg,Eintracht Frankfurt,0,0,1,1\n" +
	"2017-08-26Bayer 04 LeverkusenTSG Hoffenheim,2017-2018,Bundesliga,2,Bayer 04 Leverkusen,TSG Hoffenheim,2,2,1,1\n"

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func tempTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, os.WriteFile(path, []byte(played), 0644))
	return path
}

func TestStoredName(t *testing.T) {
	name, ok := storedName("db:features")
	assert.True(t, ok)
	assert.Equal(t, "features", name)

	_, ok = storedName("db:")
	assert.False(t, ok)
	_, ok = storedName("/tmp/features.csv")
	assert.False(t, ok)
}

func TestValidateCommand(t *testing.T) {
	assert.NoError(t, run(t, "validate", "--in", tempTable(t)))
	assert.Error(t, run(t, "validate", "--in", filepath.Join(t.TempDir(), "missing.csv")))
}

func TestStandingsCommand(t *testing.T) {
	path := tempTable(t)
	assert.NoError(t, run(t, "standings", "--in", path, "--season", "2017/2018", "--matchweek", "2"))
	assert.NoError(t, run(t, "standings", "--in", path, "--season", "2017-2018", "--matchweek", "2",
		"--home", "Bayer 04 Leverkusen", "--away", "TSG Hoffenheim"))
	assert.Error(t, run(t, "standings", "--in", path, "--season", "2017-2018", "--matchweek", "1",
		"--home", "", "--away", ""))
}

func TestStandingsDerivesMissingPoints(t *testing.T) {
	const fetched = "Primary Key,Date,Season,Competition,Matchweek,Home Team,Away Team,Result,Home Goals,Away Goals\n" +
		"2017-08-18FC Bayern MünchenBayer 04 Leverkusen,2017-08-18,2017-2018,Bundesliga,1,FC Bayern München,Bayer 04 Leverkusen,H,3,1\n" +
		"2017-08-26Bayer 04 LeverkusenTSG Hoffenheim,2017-08-26,2017-2018,Bundesliga,2,Bayer 04 Leverkusen,TSG Hoffenheim,D,2,2\n"
	path := filepath.Join(t.TempDir(), "fetched.csv")
	require.NoError(t, os.WriteFile(path, []byte(fetched), 0644))

	assert.NoError(t, run(t, "standings", "--in", path, "--season", "2017-2018", "--matchweek", "2",
		"--home", "", "--away", ""))
	assert.NoError(t, run(t, "standings", "--in", path, "--season", "2017-2018", "--matchweek", "2",
		"--home", "Bayer 04 Leverkusen", "--away", "TSG Hoffenheim"))
}

func TestWorkersFlagOverridesConfig(t *testing.T) {
	require.NoError(t, run(t, "validate", "--in", tempTable(t), "--workers", "7"))
	assert.Equal(t, 7, cfg.Workers)
}

func TestSaveTableToStore(t *testing.T) {
	require.NoError(t, run(t, "validate", "--in", tempTable(t)))
	cfg.DbPath = filepath.Join(t.TempDir(), "matchday.db")

	tbl, err := secretary.LoadCSV(tempTable(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rootCmd.SetContext(ctx)
	require.NoError(t, saveTable(rootCmd, "db:matches", tbl))

	loaded, err := loadTable(rootCmd, "db:matches")
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), loaded.Len())
}
