package engineer

import (
	"fmt"
	"slices"

	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/util"
)

// Aggregate reduces a team's season series one position at a time using only
// the values before that position. Numeric results are rounded to two
// decimals and positions without any preceding value get -1. Changed compares
// each value with the one window positions earlier and is false for the
// first window positions.
func Aggregate(series []table.Cell, window int, kind Kind) ([]table.Cell, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be at least 1, got %d", window)
	}
	if kind == Changed {
		return changed(series, window), nil
	}

	xs := make([]float64, len(series))
	for i, c := range series {
		v, err := c.Float()
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		xs[i] = v
	}

	switch kind {
	case Mean:
		return rolling(xs, window, mean), nil
	case Max:
		return rolling(xs, window, slices.Max[[]float64]), nil
	case Min:
		return rolling(xs, window, slices.Min[[]float64]), nil
	case EWMMean:
		return ewm(xs, window), nil
	default:
		return nil, fmt.Errorf("unsupported aggregation kind %d", kind)
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// rolling applies reduce to the up to window values strictly before each position
func rolling(xs []float64, window int, reduce func([]float64) float64) []table.Cell {
	out := make([]table.Cell, len(xs))
	for i := range xs {
		if i == 0 {
			out[i] = table.Missing()
			continue
		}
		lo := max(0, i-window)
		out[i] = table.Num(util.RoundHalfEven(reduce(xs[lo:i]), 2))
	}
	return out
}

// ewm is the adjusted exponentially weighted mean with span window over all
// values strictly before each position. Weights are (1-alpha)^age with
// alpha = 2/(span+1).
func ewm(xs []float64, window int) []table.Cell {
	decay := 1 - 2/(float64(window)+1)
	out := make([]table.Cell, len(xs))
	num, den := 0.0, 0.0
	for i, x := range xs {
		if i == 0 {
			out[i] = table.Missing()
		} else {
			out[i] = table.Num(util.RoundHalfEven(num/den, 2))
		}
		num = num*decay + x
		den = den*decay + 1
	}
	return out
}

func changed(series []table.Cell, lag int) []table.Cell {
	out := make([]table.Cell, len(series))
	for i := range series {
		out[i] = table.Flag(i >= lag && !series[i].Equal(series[i-lag]))
	}
	return out
}
