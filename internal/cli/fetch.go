package cli

import (
	"fmt"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/secretary"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/transport"
	"github.com/richard-senior/matchday/pkg/util"
	"github.com/spf13/cobra"
)

var (
	fetchCompetitions []string
	fetchSeasons      []string
	fetchOut          string
	fetchTeams        string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download seasons from football-data.co.uk",
	Long: `Downloads every requested season of every requested competition, parses
them into match rows and merges them into --out. Rows already in --out are
replaced by the downloaded version of the same match.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringSliceVar(&fetchCompetitions, "competition", match.Competitions(), "competitions")
	fetchCmd.Flags().StringSliceVar(&fetchSeasons, "season", nil, "seasons (default: the configured seasons)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "match table to merge into")
	fetchCmd.Flags().StringVar(&fetchTeams, "teams", "", "CSV with a Team column of canonical team names")
	fetchCmd.MarkFlagRequired("out")
}

func runFetch(cmd *cobra.Command, args []string) error {
	seasons := fetchSeasons
	if len(seasons) == 0 {
		seasons = cfg.Seasons()
	}

	source := secretary.NewFootballData(transport.NewClient(cfg), cfg.CachePath)
	if fetchTeams != "" {
		teams, err := secretary.LoadCSV(fetchTeams)
		if err != nil {
			return err
		}
		column, err := teams.Column(secretary.CoachTeam)
		if err != nil {
			return err
		}
		for _, c := range column {
			source.Teams = append(source.Teams, c.String())
		}
	}

	var merged *table.Table
	if _, ok := storedName(fetchOut); ok || util.FileExists(fetchOut) {
		existing, err := loadTable(cmd, fetchOut)
		if err != nil {
			logger.Warn("Starting a new table", fetchOut, err)
		} else {
			merged = existing
		}
	}

	for _, competition := range fetchCompetitions {
		for _, season := range seasons {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			t, err := source.Import(cmd.Context(), competition, season)
			if err != nil {
				return err
			}
			if merged == nil {
				merged = t
				continue
			}
			if merged, err = secretary.Merge(merged, t); err != nil {
				return err
			}
		}
	}
	if merged == nil {
		return fmt.Errorf("nothing fetched")
	}
	if err := match.Validate(merged); err != nil {
		return err
	}
	if err := saveTable(cmd, fetchOut, merged); err != nil {
		return err
	}
	fmt.Printf("✓ %d matches -> %s\n", merged.Len(), fetchOut)
	return nil
}
