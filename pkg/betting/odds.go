// Package betting compares model probabilities with bookmaker odds and
// sizes stakes with the Kelly criterion.
package betting

import (
	"fmt"

	"github.com/richard-senior/matchday/pkg/match"
)

// RemoveVig converts three-way decimal odds to fair probabilities
// by stripping the bookmaker's overround.
func RemoveVig(home, draw, away float64) (float64, float64, float64, error) {
	for _, o := range []float64{home, draw, away} {
		if o <= 1 {
			return 0, 0, 0, fmt.Errorf("decimal odds must be above 1, got %.2f", o)
		}
	}
	rawH := 1.0 / home
	rawD := 1.0 / draw
	rawA := 1.0 / away
	total := rawH + rawD + rawA
	return rawH / total, rawD / total, rawA / total, nil
}

// Overround is the bookmaker margin, 0.05 for a 105% book
func Overround(home, draw, away float64) float64 {
	return 1/home + 1/draw + 1/away - 1
}

// IsValue reports whether the model sees more than alpha of probability
// beyond the bookmaker's implied probability
func IsValue(p, odds, alpha float64) bool {
	if odds <= 1 {
		return false
	}
	return 1/odds+alpha < p
}

// Kelly is the fraction of the bankroll to stake on decimal odds with win
// probability p. It is 0 whenever the bet has no edge.
func Kelly(p, odds float64) float64 {
	if odds <= 1 || p <= 0 {
		return 0
	}
	f := p + (p-1)/(odds-1)
	if f <= 0 {
		return 0
	}
	return f
}

// Stake is the Kelly fraction of pot divided by the safety factor
func Stake(p, odds, pot, safety float64) float64 {
	if safety < 1 {
		safety = 1
	}
	return Kelly(p, odds) * pot / safety
}

// Favourite returns the outcome with the shortest odds. Ties resolve to the
// later of home, away, draw.
func Favourite(home, draw, away float64) string {
	favourite := min(home, draw, away)
	outcome := ""
	if home == favourite {
		outcome = match.HomeWin
	}
	if away == favourite {
		outcome = match.AwayWin
	}
	if draw == favourite {
		outcome = match.Draw
	}
	return outcome
}
