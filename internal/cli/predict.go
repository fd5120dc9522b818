package cli

import (
	"fmt"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/predict"
	"github.com/spf13/cobra"
)

var (
	predictIn  string
	predictOut string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Poisson outcome probabilities",
	Long: `Adds <model>_proba_h, <model>_proba_d and <model>_proba_a to an engineered
table. Expected goals come from the moving averages of goals scored and
conceded over the prediction window. Matches already played are scored
with accuracy and the Brier score.`,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVar(&predictIn, "in", "", "engineered table")
	predictCmd.Flags().StringVar(&predictOut, "out", "", "table with probabilities (default: overwrite --in)")
	predictCmd.MarkFlagRequired("in")
}

func runPredict(cmd *cobra.Command, args []string) error {
	t, err := loadTable(cmd, predictIn)
	if err != nil {
		return err
	}
	if err := predict.NewPredictor(cfg).AddProbabilities(t, cfg.ModelName); err != nil {
		return err
	}
	out := predictOut
	if out == "" {
		out = predictIn
	}
	if err := saveTable(cmd, out, t); err != nil {
		return err
	}

	accuracy, err := predict.Evaluate(t, cfg.ModelName)
	if err != nil {
		logger.Warn("Skipping evaluation", err)
		return nil
	}
	if jsonOut {
		return printJSON(accuracy)
	}
	fmt.Printf("%d matches, %d results correct (%.2f%%), Brier %.4f\n",
		accuracy.TotalMatches, accuracy.ResultCorrect, accuracy.ResultAccuracy, accuracy.Brier)
	return nil
}
