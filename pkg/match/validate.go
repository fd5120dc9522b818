package match

import (
	"fmt"

	"github.com/richard-senior/matchday/pkg/table"
)

// Validate checks the structural invariants of a match table: the key
// columns exist, primary keys are unique, seasons are YYYY-YYYY or UNKNOWN,
// competitions are known or UNKNOWN, and matchweeks are 1-99 for known
// competitions and -1 otherwise.
func Validate(t *table.Table) error {
	if err := t.Require(PrimaryKey, Season, Competition, Matchweek, HomeTeam, AwayTeam); err != nil {
		return err
	}

	seen := make(map[string]int, t.Len())
	for r := 0; r < t.Len(); r++ {
		key := t.Text(r, PrimaryKey)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("duplicate primary key %q in rows %d and %d", key, prev, r)
		}
		seen[key] = r

		season := t.Text(r, Season)
		if season != table.Unknown && !IsSeason(season) {
			return fmt.Errorf("row %d: invalid season %q", r, season)
		}

		competition := t.Text(r, Competition)
		known := IsKnownCompetition(competition)
		if !known && competition != table.Unknown {
			return fmt.Errorf("row %d: unknown competition %q", r, competition)
		}

		mw, err := t.Get(r, Matchweek).Int()
		if err != nil {
			return fmt.Errorf("row %d: matchweek: %w", r, err)
		}
		if known && (mw < 1 || mw > 99) {
			return fmt.Errorf("row %d: matchweek %d out of range 1-99", r, mw)
		}
		if !known && mw != -1 {
			return fmt.Errorf("row %d: matchweek %d for unknown competition must be -1", r, mw)
		}
	}
	return nil
}
