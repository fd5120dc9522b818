// Package cli wires the matchday commands onto cobra
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/config"
	"github.com/richard-senior/matchday/pkg/secretary"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	workers    int
	logOutput  string
	jsonOut    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "matchday",
	Short: "Football feature engineering, prediction and betting simulation",
	Long: `matchday - temporal feature engineering for football matches

Builds leak free per-team rolling features from historical match data
and uses them to predict and bet on upcoming matches.

Commands:
  - fetch: download seasons from football-data.co.uk
  - engineer: build the feature table
  - standings: league table before a matchweek
  - predict: Poisson outcome probabilities
  - simulate: replay value bets against the results`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. An interrupt cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("matchday failed:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration overlaid on the defaults")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "concurrent team-season partitions (default from config)")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log", "c", "log output: c (console), f (file) or b (both)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON output")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if workers > 0 {
		c.Workers = workers
	}
	if err := config.Validate(c); err != nil {
		return err
	}
	cfg = c

	if verbose {
		logger.SetLevel(logger.DEBUG)
	}
	if logOutput == "" {
		return fmt.Errorf("--log must not be empty")
	}
	logger.SetLogPath(cfg.LogPath)
	return logger.SetLogOutput(rune(logOutput[0]))
}

// loadTable reads a CSV, or a stored table when the path is db:<name>
func loadTable(cmd *cobra.Command, path string) (*table.Table, error) {
	if name, ok := storedName(path); ok {
		store, err := secretary.Open(cfg.DbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadTable(cmd.Context(), name)
	}
	return secretary.LoadCSV(path)
}

// saveTable writes a CSV, or a stored table when the path is db:<name>
func saveTable(cmd *cobra.Command, path string, t *table.Table) error {
	if name, ok := storedName(path); ok {
		store, err := secretary.Open(cfg.DbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.SaveTable(cmd.Context(), name, t)
	}
	return secretary.SaveCSV(path, t)
}

func storedName(path string) (string, bool) {
	const prefix = "db:"
	if len(path) > len(prefix) && path[:len(prefix)] == prefix {
		return path[len(prefix):], true
	}
	return "", false
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
