package engineer

import (
	"fmt"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
)

// Scatter writes per-team series back into a Home/Away column pair. Each
// point lands in the row with its primary key, in the column of the side the
// team played on. Both columns start Unset and every cell must be written
// exactly once; anything else is reported as table.ErrIncomplete.
func Scatter(t *table.Table, homeColumn, awayColumn string, series ...[]Point) error {
	if err := t.Require(match.PrimaryKey); err != nil {
		return err
	}

	rows := make(map[string]int, t.Len())
	for r := 0; r < t.Len(); r++ {
		key := t.Text(r, match.PrimaryKey)
		if prev, ok := rows[key]; ok {
			return fmt.Errorf("%w: duplicate primary key %q in rows %d and %d", table.ErrIncomplete, key, prev, r)
		}
		rows[key] = r
	}

	// staged so a failed scatter leaves t untouched
	columns := [2]string{homeColumn, awayColumn}
	staged := [2][]table.Cell{make([]table.Cell, t.Len()), make([]table.Cell, t.Len())}
	for _, points := range series {
		for _, p := range points {
			r, ok := rows[p.Key]
			if !ok {
				return fmt.Errorf("%w: no match %q for column %s", table.ErrIncomplete, p.Key, columns[p.Side])
			}
			if staged[p.Side][r].IsSet() {
				return fmt.Errorf("%w: %s of %q written twice", table.ErrIncomplete, columns[p.Side], p.Key)
			}
			staged[p.Side][r] = p.Value
		}
	}
	for side, cells := range staged {
		for r, c := range cells {
			if !c.IsSet() {
				return fmt.Errorf("%w: column %q row %d was never written", table.ErrIncomplete, columns[side], r)
			}
		}
	}

	for side, name := range columns {
		t.AddColumn(name)
		for r, c := range staged[side] {
			if err := t.Set(r, name, c); err != nil {
				return err
			}
		}
	}
	return nil
}
