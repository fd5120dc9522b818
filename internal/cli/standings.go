package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/richard-senior/matchday/pkg/engineer"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/spf13/cobra"
)

var (
	standingsIn          string
	standingsSeason      string
	standingsCompetition string
	standingsMatchweek   int
	standingsHome        string
	standingsAway        string
)

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "League table before a matchweek",
	Long: `Prints the table of a season and competition built from every match played
before the given matchweek. With --home and --away only the positions of
those two teams are printed, with the opening matchweeks reported as -1.`,
	RunE: runStandings,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the structure of a match table",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd, standingsIn)
		if err != nil {
			return err
		}
		if err := match.Validate(t); err != nil {
			return err
		}
		fmt.Printf("✓ %d matches valid\n", t.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(validateCmd)
	for _, c := range []*cobra.Command{standingsCmd, validateCmd} {
		c.Flags().StringVar(&standingsIn, "in", "", "match table")
		c.MarkFlagRequired("in")
	}
	standingsCmd.Flags().StringVar(&standingsSeason, "season", "", "season, e.g. 2017-2018")
	standingsCmd.Flags().StringVar(&standingsCompetition, "competition", match.Bundesliga, "competition")
	standingsCmd.Flags().IntVar(&standingsMatchweek, "matchweek", 0, "matchweek the table precedes")
	standingsCmd.Flags().StringVar(&standingsHome, "home", "", "home team")
	standingsCmd.Flags().StringVar(&standingsAway, "away", "", "away team")
	standingsCmd.MarkFlagRequired("season")
	standingsCmd.MarkFlagRequired("matchweek")
}

func runStandings(cmd *cobra.Command, args []string) error {
	t, err := loadTable(cmd, standingsIn)
	if err != nil {
		return err
	}
	// fetched tables carry a result but no points
	if !t.Has(match.Home.Column(engineer.Points)) {
		if err := engineer.AddPoints(t); err != nil {
			return err
		}
	}
	season, err := match.ParseSeason(standingsSeason)
	if err != nil {
		return err
	}

	if standingsHome != "" || standingsAway != "" {
		home, away, err := engineer.CurrentPosition(t, standingsHome, standingsAway, season, standingsCompetition, standingsMatchweek, cfg.PositionOffset)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(map[string]string{
				"home": home.Cell().String(),
				"away": away.Cell().String(),
			})
		}
		fmt.Printf("%s: %s\n%s: %s\n", standingsHome, home.Cell(), standingsAway, away.Cell())
		return nil
	}

	standings, err := engineer.BuildStandings(t, season, standingsCompetition, standingsMatchweek)
	if err != nil {
		return err
	}
	if standings == nil {
		return fmt.Errorf("no matches of %s %s before matchweek %d", standingsCompetition, season, standingsMatchweek)
	}
	if jsonOut {
		return printJSON(standings)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTeam\tPts\tGF\tGA\tGD")
	for i, s := range standings {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%+d\n", i+1, s.Team, s.Points, s.Goals, s.GoalsAgainst, s.Difference())
	}
	return w.Flush()
}
