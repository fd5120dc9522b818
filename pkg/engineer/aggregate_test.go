package engineer

import (
	"testing"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nums(xs ...float64) []table.Cell {
	out := make([]table.Cell, len(xs))
	for i, x := range xs {
		out[i] = table.Num(x)
	}
	return out
}

func floats(t *testing.T, cells []table.Cell) []float64 {
	t.Helper()
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := c.Float()
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func TestAggregateExcludesCurrentMatch(t *testing.T) {
	series := nums(1, 2, 1000)
	cases := []struct {
		kind Kind
		want float64
	}{
		{Mean, 1.5},
		{Max, 2},
		{Min, 1},
	}
	for _, tc := range cases {
		t.Run(tc.kind.Label(), func(t *testing.T) {
			out, err := Aggregate(series, 3, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.want, floats(t, out)[2])
		})
	}

	out, err := Aggregate(series, 3, EWMMean)
	require.NoError(t, err)
	assert.Less(t, floats(t, out)[2], 2.0)
}

func TestAggregateFillsFirstPosition(t *testing.T) {
	for _, kind := range []Kind{Mean, EWMMean, Max, Min} {
		out, err := Aggregate(nums(5, 6), 3, kind)
		require.NoError(t, err)
		assert.True(t, out[0].IsMissing(), kind.Label())
		assert.Equal(t, 5.0, floats(t, out)[1], kind.Label())
	}
}

func TestAggregateRoundsToTwoDecimals(t *testing.T) {
	out, err := Aggregate(nums(4, 1, 3), 3, Mean)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 4, 2.5}, floats(t, out))

	out, err = Aggregate(nums(3, 2, 2, 0), 3, Mean)
	require.NoError(t, err)
	assert.Equal(t, 2.33, floats(t, out)[3])

	// ties go to the even digit
	out, err = Aggregate(nums(2.25, 2, 0), 3, Mean)
	require.NoError(t, err)
	assert.Equal(t, 2.12, floats(t, out)[2])
}

func TestAggregateWindowLimitsHistory(t *testing.T) {
	out, err := Aggregate(nums(10, 1, 1, 1, 0), 3, Max)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 10, 10, 10, 1}, floats(t, out))

	out, err = Aggregate(nums(10, 1, 1, 1, 0), 3, Min)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 10, 1, 1, 1}, floats(t, out))
}

func TestEWMMeanUsesAllPrecedingValues(t *testing.T) {
	// span 3 halves the weight per match: (0.25*3 + 0.5*2 + 2) / 1.75
	out, err := Aggregate(nums(3, 2, 2, 7), 3, EWMMean)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 3, 2.33, 2.14}, floats(t, out))

	out, err = Aggregate(nums(1, 1, 1, 1, 1, 1), 2, EWMMean)
	require.NoError(t, err)
	for _, v := range floats(t, out)[1:] {
		assert.Equal(t, 1.0, v)
	}
}

func TestChangedUsesFixedLag(t *testing.T) {
	coaches := []table.Cell{
		table.Str("Herrlich"), table.Str("Herrlich"), table.Str("Herrlich"),
		table.Str("Bosz"), table.Str("Bosz"), table.Str("Bosz"), table.Str("Bosz"),
	}
	out, err := Aggregate(coaches, 3, Changed)
	require.NoError(t, err)

	var got []bool
	for _, c := range out {
		b, err := c.Bool()
		require.NoError(t, err)
		got = append(got, b)
	}
	assert.Equal(t, []bool{false, false, false, true, true, true, false}, got)
}

func TestChangedIsFalseForFirstLagPositions(t *testing.T) {
	out, err := Aggregate([]table.Cell{table.Str("A"), table.Str("B"), table.Str("C")}, 3, Changed)
	require.NoError(t, err)
	for _, c := range out {
		assert.True(t, c.Equal(table.Flag(false)))
	}
}

func TestAggregateRejectsBadInput(t *testing.T) {
	_, err := Aggregate(nums(1), 0, Mean)
	assert.Error(t, err)

	_, err = Aggregate([]table.Cell{table.Str("two")}, 3, Mean)
	assert.ErrorIs(t, err, table.ErrType)
}

func TestColumnNames(t *testing.T) {
	goals := NumericFeature("Goals")
	assert.Equal(t, "Home MA Goals Last 3 Games Before Matchday",
		ColumnName(match.Home, Aggregation{Feature: goals, Kind: Mean, Window: 3}))
	assert.Equal(t, "Away EWMA Goals Against Last 5 Games Before Matchday",
		ColumnName(match.Away, Aggregation{Feature: goals, Kind: EWMMean, Window: 5, Against: true}))
	assert.Equal(t, "Home Coach Substituted Within Last 3 Games",
		ColumnName(match.Home, Aggregation{Feature: Coach, Kind: Changed, Window: 3}))
	assert.Equal(t, "Kick Off Before 17:00", KickOffBeforeColumn(17))
}

func TestVariants(t *testing.T) {
	vs := Variants(NumericFeature("Shots"), 5)
	require.Len(t, vs, 8)

	seen := make(map[string]bool)
	for _, a := range vs {
		assert.NoError(t, a.validate())
		seen[ColumnName(match.Home, a)] = true
	}
	assert.Len(t, seen, 8)
	assert.True(t, seen["Home MIN Shots Against Last 5 Games Before Matchday"])
}
