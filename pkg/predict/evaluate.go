package predict

import (
	"fmt"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/util"
)

// outcomeIndex maps a result code onto the position of its probability
func outcomeIndex(result string) (int, error) {
	switch result {
	case match.HomeWin:
		return 0, nil
	case match.Draw:
		return 1, nil
	case match.AwayWin:
		return 2, nil
	default:
		return -1, fmt.Errorf("%w: result %q", table.ErrType, result)
	}
}

// Brier is the mean squared distance between the outcome probabilities and
// the observed results, rounded to four decimals. 0 is a perfect forecast.
func Brier(results []string, probabilities [][3]float64) (float64, error) {
	if len(results) != len(probabilities) {
		return 0, fmt.Errorf("got %d results for %d predictions", len(results), len(probabilities))
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("no predictions to score")
	}
	total := 0.0
	for i, result := range results {
		observed, err := outcomeIndex(result)
		if err != nil {
			return 0, err
		}
		for k, p := range probabilities[i] {
			o := 0.0
			if k == observed {
				o = 1
			}
			total += (p - o) * (p - o)
		}
	}
	return util.RoundToDecimalPlaces(total/float64(len(results)), 4), nil
}

// Accuracy holds prediction statistics over the predicted matches of a table
type Accuracy struct {
	TotalMatches   int
	ResultCorrect  int
	ResultAccuracy float64 // Percentage
	Brier          float64
}

// Evaluate compares a model's probabilities with the results. Matches
// without a prediction (-1) or without a result are skipped.
func Evaluate(t *table.Table, model string) (*Accuracy, error) {
	columns := ProbabilityColumns(model)
	if err := t.Require(append(columns[:], match.Result)...); err != nil {
		return nil, err
	}

	var results []string
	var probabilities [][3]float64
	correct := 0
	for r := 0; r < t.Len(); r++ {
		result := t.Text(r, match.Result)
		observed, err := outcomeIndex(result)
		if err != nil {
			continue
		}
		var p [3]float64
		for i, c := range columns {
			if p[i], err = t.Get(r, c).Float(); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", c, r, err)
			}
		}
		if p[0] < 0 {
			continue
		}
		predicted := 0
		for i := range p {
			if p[i] > p[predicted] {
				predicted = i
			}
		}
		if predicted == observed {
			correct++
		}
		results = append(results, result)
		probabilities = append(probabilities, p)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no predicted matches with a result for %s", model)
	}
	brier, err := Brier(results, probabilities)
	if err != nil {
		return nil, err
	}
	return &Accuracy{
		TotalMatches:   len(results),
		ResultCorrect:  correct,
		ResultAccuracy: util.RoundToDecimalPlaces(float64(correct)/float64(len(results))*100, 2),
		Brier:          brier,
	}, nil
}
