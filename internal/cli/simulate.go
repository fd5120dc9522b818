package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/richard-senior/matchday/pkg/betting"
	"github.com/spf13/cobra"
)

var (
	simulateIn      string
	simulateModel   string
	simulateFlat    float64
	simulateHistory bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay value bets against the results",
	Long: `Walks a predicted table in order and bets on every outcome whose model
probability beats the bookmaker by alpha. Stakes are a fraction of the
Kelly stake, or a flat amount with --flat.`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateIn, "in", "", "table with probabilities and odds")
	simulateCmd.Flags().StringVar(&simulateModel, "model", "", "model whose probabilities are used (default from config)")
	simulateCmd.Flags().Float64Var(&simulateFlat, "flat", 0, "flat stake per bet instead of Kelly")
	simulateCmd.Flags().BoolVar(&simulateHistory, "history", false, "print every bet")
	simulateCmd.MarkFlagRequired("in")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	t, err := loadTable(cmd, simulateIn)
	if err != nil {
		return err
	}
	model := simulateModel
	if model == "" {
		model = cfg.ModelName
	}

	sim := &betting.Simulation{
		Budget: cfg.Budget,
		Safety: cfg.SafetyFactor,
		Alpha:  cfg.Alpha,
		Flat:   simulateFlat,
	}
	summary, err := sim.Run(t, model)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(summary)
	}

	if simulateHistory {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Match\tBet\tOdds\tStake\tWon\tBalance")
		for _, b := range summary.Bets {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%t\t%.2f\n", b.Key, b.Outcome, b.Odds, b.Stake, b.Won, b.Balance)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	fmt.Printf("%d bets, %d won. Balance %.2f (min %.2f, max %.2f), invested %.2f, return %.2f%%\n",
		len(summary.Bets), summary.Hits, summary.Final, summary.Min, summary.Max, summary.Invested, summary.Return)
	return nil
}
