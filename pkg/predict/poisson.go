// Package predict turns engineered goal averages into match outcome
// probabilities with a Poisson score model.
package predict

import (
	"fmt"
	"math"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/config"
	"github.com/richard-senior/matchday/pkg/engineer"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/util"
)

// Predictor holds the parameters of the score model
type Predictor struct {
	MaxGoals int     // score matrix covers 0..MaxGoals-1 goals per side
	Rho      float64 // Dixon-Coles low score correlation
	Window   int     // moving average window feeding the expected goals
}

// NewPredictor reads the model parameters from cfg
func NewPredictor(cfg *config.Config) *Predictor {
	return &Predictor{
		MaxGoals: cfg.MaxGoals,
		Rho:      cfg.DixonColesRho,
		Window:   cfg.PredictionWindow,
	}
}

// Prediction holds the complete Poisson analysis of one match
type Prediction struct {
	HomeExpectedGoals  float64
	AwayExpectedGoals  float64
	PredictedHomeGoals int
	PredictedAwayGoals int
	HomeWin            float64
	Draw               float64
	AwayWin            float64
	Over2p5Goals       float64
}

// Probabilities returns home win, draw and away win in that order
func (p *Prediction) Probabilities() [3]float64 {
	return [3]float64{p.HomeWin, p.Draw, p.AwayWin}
}

// Predict computes the outcome probabilities for the given expected goals
func (p *Predictor) Predict(homeExpected, awayExpected float64) (*Prediction, error) {
	if homeExpected < 0 || awayExpected < 0 {
		return nil, fmt.Errorf("expected goals must not be negative, got %.2f and %.2f", homeExpected, awayExpected)
	}
	if p.MaxGoals < 1 {
		return nil, fmt.Errorf("MaxGoals must be positive, got %d", p.MaxGoals)
	}

	// Equivalent to np.outer(poisson.pmf(range(n), lh), poisson.pmf(range(n), la))
	matrix := createProbabilityMatrix(goalProbabilities(homeExpected, p.MaxGoals), goalProbabilities(awayExpected, p.MaxGoals))
	matrix = dixonColesCorrection(matrix, homeExpected, awayExpected, p.Rho)

	homeWin, draw, awayWin := outcomeProbabilities(matrix)
	return &Prediction{
		HomeExpectedGoals:  homeExpected,
		AwayExpectedGoals:  awayExpected,
		PredictedHomeGoals: mostLikelyGoals(matrix, true),
		PredictedAwayGoals: mostLikelyGoals(matrix, false),
		HomeWin:            homeWin,
		Draw:               draw,
		AwayWin:            awayWin,
		Over2p5Goals:       overGoalsProbability(matrix, 2.5),
	}, nil
}

// goalProbabilities is the Poisson probability of 0..n-1 goals
func goalProbabilities(lambda float64, n int) []float64 {
	probabilities := make([]float64, n)
	for k := 0; k < n; k++ {
		lg, _ := math.Lgamma(float64(k + 1))
		if lambda == 0 {
			if k == 0 {
				probabilities[k] = 1
			}
			continue
		}
		probabilities[k] = math.Exp(float64(k)*math.Log(lambda) - lambda - lg)
	}
	return probabilities
}

// createProbabilityMatrix has home goals as rows and away goals as columns
func createProbabilityMatrix(homeProbs, awayProbs []float64) [][]float64 {
	matrix := make([][]float64, len(homeProbs))
	for i := range homeProbs {
		matrix[i] = make([]float64, len(awayProbs))
		for j := range awayProbs {
			matrix[i][j] = homeProbs[i] * awayProbs[j]
		}
	}
	return matrix
}

// dixonColesCorrection scales the 0-0, 1-0, 0-1 and 1-1 scores and renormalises
func dixonColesCorrection(matrix [][]float64, homeExpected, awayExpected, rho float64) [][]float64 {
	if len(matrix) > 1 && len(matrix[0]) > 1 {
		for _, score := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			matrix[score[0]][score[1]] *= tau(score[0], score[1], homeExpected, awayExpected, rho)
		}
	}
	return renormalizeMatrix(matrix)
}

func tau(homeGoals, awayGoals int, lambda1, lambda2, rho float64) float64 {
	switch {
	case homeGoals == 0 && awayGoals == 0:
		return 1 - lambda1*lambda2*rho
	case homeGoals == 0 && awayGoals == 1:
		return 1 + lambda1*rho
	case homeGoals == 1 && awayGoals == 0:
		return 1 + lambda2*rho
	case homeGoals == 1 && awayGoals == 1:
		return 1 - rho
	}
	return 1.0
}

func renormalizeMatrix(matrix [][]float64) [][]float64 {
	total := 0.0
	for i := range matrix {
		for j := range matrix[i] {
			total += matrix[i][j]
		}
	}
	if total > 0 {
		for i := range matrix {
			for j := range matrix[i] {
				matrix[i][j] /= total
			}
		}
	}
	return matrix
}

// outcomeProbabilities sums the lower triangle (home win), the diagonal
// (draw) and the upper triangle (away win)
func outcomeProbabilities(matrix [][]float64) (homeWin, draw, awayWin float64) {
	for i := range matrix {
		for j := range matrix[i] {
			switch {
			case i > j:
				homeWin += matrix[i][j]
			case i == j:
				draw += matrix[i][j]
			default:
				awayWin += matrix[i][j]
			}
		}
	}
	return homeWin, draw, awayWin
}

// mostLikelyGoals is the argmax of one side's marginal distribution
func mostLikelyGoals(matrix [][]float64, isHome bool) int {
	maxProb := 0.0
	mostLikely := 0
	for g := range matrix {
		prob := 0.0
		for other := range matrix {
			if isHome {
				prob += matrix[g][other]
			} else {
				prob += matrix[other][g]
			}
		}
		if prob > maxProb {
			maxProb = prob
			mostLikely = g
		}
	}
	return mostLikely
}

func overGoalsProbability(matrix [][]float64, threshold float64) float64 {
	p := 0.0
	for i := range matrix {
		for j := range matrix[i] {
			if float64(i+j) > threshold {
				p += matrix[i][j]
			}
		}
	}
	return p
}

// ProbabilityColumns names the home win, draw and away win columns of a model
func ProbabilityColumns(model string) [3]string {
	return [3]string{model + "_proba_h", model + "_proba_d", model + "_proba_a"}
}

func goalsColumn(side match.Side, window int, against bool) string {
	return engineer.ColumnName(side, engineer.Aggregation{
		Feature: engineer.NumericFeature(engineer.Goals),
		Kind:    engineer.Mean,
		Window:  window,
		Against: against,
	})
}

// ExpectedGoals averages a side's scoring with the opponent's conceding over
// the last window matches. ok is false while either team lacks history.
func (p *Predictor) ExpectedGoals(t *table.Table, row int) (home, away float64, ok bool, err error) {
	var v [2][2]float64 // side, against
	for _, side := range match.Sides {
		for a, against := range []bool{false, true} {
			col := goalsColumn(side, p.Window, against)
			if err := t.Require(col); err != nil {
				return 0, 0, false, err
			}
			if v[side][a], err = t.Get(row, col).Float(); err != nil {
				return 0, 0, false, fmt.Errorf("%s row %d: %w", col, row, err)
			}
			if v[side][a] < 0 {
				return -1, -1, false, nil
			}
		}
	}
	home = (v[match.Home][0] + v[match.Away][1]) / 2
	away = (v[match.Away][0] + v[match.Home][1]) / 2
	return home, away, true, nil
}

// AddProbabilities writes <model>_proba_h, _d and _a for every match. Matches
// without enough history get -1.
func (p *Predictor) AddProbabilities(t *table.Table, model string) error {
	columns := ProbabilityColumns(model)
	for _, c := range columns {
		t.AddColumn(c)
	}

	predicted := 0
	for r := 0; r < t.Len(); r++ {
		probabilities := [3]float64{-1, -1, -1}
		home, away, ok, err := p.ExpectedGoals(t, r)
		if err != nil {
			return err
		}
		if ok {
			prediction, err := p.Predict(home, away)
			if err != nil {
				return fmt.Errorf("row %d: %w", r, err)
			}
			probabilities = prediction.Probabilities()
			for i := range probabilities {
				probabilities[i] = util.RoundToDecimalPlaces(probabilities[i], 4)
			}
			predicted++
		}
		for i, c := range columns {
			if err := t.Set(r, c, table.Num(probabilities[i])); err != nil {
				return err
			}
		}
	}

	logger.Info("Predicted", predicted, "of", t.Len(), "matches")
	return t.Complete(columns[:]...)
}
