package cli

import (
	"fmt"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/engineer"
	"github.com/richard-senior/matchday/pkg/secretary"
	"github.com/spf13/cobra"
)

var (
	engineerBase       string
	engineerCoaches    string
	engineerPromotions string
	engineerOut        string
	engineerModelReady bool
)

var engineerCmd = &cobra.Command{
	Use:   "engineer",
	Short: "Build the feature table",
	Long: `Engineers the configured seasons of the base table: days since last game,
coaches, points, promotions, kick off, table position and every rolling
aggregation of the configured features and windows.

Tables are CSV paths, or db:<name> for a table in the sqlite store.`,
	RunE: runEngineer,
}

func init() {
	rootCmd.AddCommand(engineerCmd)
	engineerCmd.Flags().StringVar(&engineerBase, "base", "", "merged base table")
	engineerCmd.Flags().StringVar(&engineerCoaches, "coaches", "", "coach spells CSV")
	engineerCmd.Flags().StringVar(&engineerPromotions, "promotions", "", "promoted teams CSV")
	engineerCmd.Flags().StringVar(&engineerOut, "out", "", "feature table")
	engineerCmd.Flags().BoolVar(&engineerModelReady, "model-ready", false, "drop the raw per-match features and the opening matchweeks")
	engineerCmd.MarkFlagRequired("base")
	engineerCmd.MarkFlagRequired("out")
}

func runEngineer(cmd *cobra.Command, args []string) error {
	base, err := loadTable(cmd, engineerBase)
	if err != nil {
		return err
	}

	var coaches []engineer.CoachSpell
	if engineerCoaches != "" {
		if coaches, err = secretary.LoadCoaches(engineerCoaches); err != nil {
			return err
		}
	}
	var promotions []engineer.Promotion
	if engineerPromotions != "" {
		if promotions, err = secretary.LoadPromotions(engineerPromotions); err != nil {
			return err
		}
	}

	features, err := engineer.NewPipeline(cfg).Build(cmd.Context(), base, coaches, promotions)
	if err != nil {
		return err
	}
	if engineerModelReady {
		if features, err = engineer.PrepareForModel(features, cfg.Features, cfg.PositionOffset); err != nil {
			return err
		}
	}
	if err := saveTable(cmd, engineerOut, features); err != nil {
		return err
	}

	logger.Highlight("Engineered", features.Len(), "matches into", engineerOut)
	if jsonOut {
		return printJSON(map[string]any{"matches": features.Len(), "columns": len(features.Columns()), "out": engineerOut})
	}
	fmt.Printf("✓ %d matches, %d columns -> %s\n", features.Len(), len(features.Columns()), engineerOut)
	return nil
}
