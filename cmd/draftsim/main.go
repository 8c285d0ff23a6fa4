package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "draftsim",
		Short: "Snake draft Monte-Carlo simulator",
		Long: `draftsim plays many randomized snake drafts and reports which players
one team (the hero) drafts in the trials where it ends up with the best
roster by both relative value and projected points.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("env", "development", "Environment (development or production)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("player-source", "data/rankings.csv", `Player source: "db", "csv:<path>" or a CSV path`)
	rootCmd.PersistentFlags().String("database-url", "", "Database URL (postgres:// or sqlite://)")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for the player pool cache")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newServeCmd(),
		newImportCmd(),
	)
	return rootCmd
}
