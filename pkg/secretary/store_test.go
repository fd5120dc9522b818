package secretary

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "matchday.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func storedMatches() *table.Table {
	tbl := table.New(match.PrimaryKey, match.Season, match.Competition, "Home Goals", "Home Kick Off Before 17")
	tbl.Append(map[string]table.Cell{
		match.PrimaryKey:          table.Str("2017-08-19Bayer 04 LeverkusenFC Bayern München"),
		match.Season:              table.Str("2017-2018"),
		match.Competition:         table.Str(match.Bundesliga),
		"Home Goals":              table.Int(1),
		"Home Kick Off Before 17": table.Flag(true),
	})
	tbl.Append(map[string]table.Cell{
		match.PrimaryKey:          table.Str("2017-08-26SC FreiburgBayer 04 Leverkusen"),
		match.Season:              table.Str("2017-2018"),
		match.Competition:         table.Str(match.Bundesliga),
		"Home Goals":              table.Missing(),
		"Home Kick Off Before 17": table.Flag(false),
	})
	return tbl
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tbl := storedMatches()

	require.NoError(t, s.SaveTable(ctx, "matches", tbl))
	loaded, err := s.LoadTable(ctx, "matches")
	require.NoError(t, err)

	assert.Equal(t, tbl.Columns(), loaded.Columns())
	require.Equal(t, tbl.Len(), loaded.Len())
	for r := 0; r < tbl.Len(); r++ {
		assert.Equal(t, tbl.Row(r), loaded.Row(r))
	}

	names, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "matches")
}

func TestStoreUpsertAddsColumns(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.SaveTable(ctx, "matches", storedMatches()))

	update := table.New(match.PrimaryKey, "Home Goals", "Home Points")
	update.Append(map[string]table.Cell{
		match.PrimaryKey: table.Str("2017-08-26SC FreiburgBayer 04 Leverkusen"),
		"Home Goals":     table.Int(0),
		"Home Points":    table.Int(0),
	})
	require.NoError(t, s.SaveTable(ctx, "matches", update))

	loaded, err := s.LoadTable(ctx, "matches")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.True(t, loaded.Has("Home Points"))
	assert.False(t, loaded.Get(0, "Home Points").IsSet())
	assert.Equal(t, table.Int(0), loaded.Get(1, "Home Goals"))
	assert.Equal(t, table.Int(0), loaded.Get(1, "Home Points"))
}

func TestStoreRejectsBadTables(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	assert.Error(t, s.SaveTable(ctx, "matches; DROP TABLE x", storedMatches()))
	assert.ErrorIs(t, s.SaveTable(ctx, "matches", table.New("Date")), table.ErrMissingColumn)

	_, err := s.LoadTable(ctx, "not_there")
	assert.Error(t, err)
}
