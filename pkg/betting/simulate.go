package betting

import (
	"fmt"
	"slices"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/predict"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/util"
)

// Bet is one settled wager
type Bet struct {
	Key     string
	Outcome string
	Odds    float64
	Stake   float64
	Won     bool
	Balance float64 // bankroll after settlement
}

// Summary describes a simulated betting run
type Summary struct {
	Bets     []Bet
	Hits     int
	Min      float64
	Max      float64
	Invested float64
	Final    float64
	Return   float64 // profit as percentage of the invested money
}

// Simulation bets on every value outcome of a model
type Simulation struct {
	Budget float64
	Safety float64
	Alpha  float64
	// Flat stakes this amount on every value bet instead of a Kelly stake
	Flat float64
}

var oddsColumns = [3]string{match.HomeOdds, match.DrawOdds, match.AwayOdds}
var outcomes = [3]string{match.HomeWin, match.Draw, match.AwayWin}

// Run walks the rows in table order. A row is bet on for every outcome whose
// model probability beats the bookmaker by Alpha; stakes are settled against
// Result immediately. Rows without odds or predictions are skipped.
func (s *Simulation) Run(t *table.Table, model string) (*Summary, error) {
	probaColumns := predict.ProbabilityColumns(model)
	required := append(oddsColumns[:], probaColumns[:]...)
	if err := t.Require(append(required, match.PrimaryKey, match.Result)...); err != nil {
		return nil, err
	}
	if s.Budget <= 0 {
		return nil, fmt.Errorf("budget must be positive, got %.2f", s.Budget)
	}

	balance := s.Budget
	summary := &Summary{}
	for r := 0; r < t.Len(); r++ {
		result := t.Text(r, match.Result)
		if !slices.Contains(outcomes[:], result) {
			continue
		}
		var odds, proba [3]float64
		usable := true
		for i := range outcomes {
			var err error
			if odds[i], err = t.Get(r, oddsColumns[i]).Float(); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", oddsColumns[i], r, err)
			}
			if proba[i], err = t.Get(r, probaColumns[i]).Float(); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", probaColumns[i], r, err)
			}
			usable = usable && odds[i] > 1 && proba[i] >= 0
		}
		if !usable {
			continue
		}

		for i, outcome := range outcomes {
			if !IsValue(proba[i], odds[i], s.Alpha) {
				continue
			}
			stake := s.Flat
			if stake <= 0 {
				stake = Stake(proba[i], odds[i], balance, s.Safety)
			}
			if stake <= 0 {
				continue
			}
			balance -= stake
			won := result == outcome
			if won {
				balance += odds[i] * stake
				summary.Hits++
			}
			summary.Invested += stake
			summary.Bets = append(summary.Bets, Bet{
				Key:     t.Text(r, match.PrimaryKey),
				Outcome: outcome,
				Odds:    odds[i],
				Stake:   util.RoundToDecimalPlaces(stake, 2),
				Won:     won,
				Balance: util.RoundToDecimalPlaces(balance, 2),
			})
		}
	}

	summary.Final = util.RoundToDecimalPlaces(balance, 2)
	summary.Invested = util.RoundToDecimalPlaces(summary.Invested, 2)
	if len(summary.Bets) == 0 {
		summary.Min, summary.Max = summary.Final, summary.Final
		logger.Warn("No value bets found for", model)
		return summary, nil
	}
	summary.Min, summary.Max = summary.Bets[0].Balance, summary.Bets[0].Balance
	for _, b := range summary.Bets {
		summary.Min = min(summary.Min, b.Balance)
		summary.Max = max(summary.Max, b.Balance)
	}
	summary.Return = util.RoundToDecimalPlaces((balance-s.Budget)/summary.Invested*100, 2)

	logger.Info("Placed", len(summary.Bets), "bets,", summary.Hits, "won, return", summary.Return, "%")
	return summary, nil
}
