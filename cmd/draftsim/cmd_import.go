package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/draft-sim/internal/ingest"
	"github.com/stitts-dev/draft-sim/internal/services"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <rankings.csv>",
		Short: "Load a rankings CSV into the player_rankings table",
		Long: `import validates a rankings export and upserts it into the database
named by --database-url, so later runs can use --player-source db.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if a.db == nil {
		return fmt.Errorf("%w: import needs --database-url", utils.ErrInvalidConfig)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open player file: %w", err)
	}
	defer f.Close()

	rankings, err := ingest.ReadRankings(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if err := ingest.Migrate(a.db); err != nil {
		return err
	}

	n, err := ingest.SaveToDB(cmd.Context(), a.db, rankings)
	if err != nil {
		return err
	}

	if err := a.cache.Invalidate(cmd.Context(), services.DBSourceName); err != nil {
		a.logger.WithError(err).Warn("Failed to invalidate cached pool")
	}

	a.logger.WithField("players", n).Info("Player rankings imported")
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d players\n", n)
	return nil
}
