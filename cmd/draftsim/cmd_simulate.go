package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/draft-sim/internal/draft"
	"github.com/stitts-dev/draft-sim/internal/report"
	"github.com/stitts-dev/draft-sim/internal/simulator"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a batch of draft trials and print the hero's pick frequencies",
		Example: `  draftsim simulate --trials 10000 --hero-seat 3
  draftsim simulate --player-source db --output json --chart picks.html`,
		RunE: runSimulate,
	}

	cmd.Flags().Int("trials", 10000, "Number of drafts to simulate")
	cmd.Flags().Int("teams", 10, "Teams in the league")
	cmd.Flags().Int("hero-seat", 10, "Draft seat of the hero team (1-based)")
	cmd.Flags().Int("randomness", 5, "Opponent pick deviation from ADP order")
	cmd.Flags().Int("top-k", 20, "Players to report (0 for all)")
	cmd.Flags().Int("workers", 0, "Parallel workers (0 for one per CPU)")
	cmd.Flags().Int("max-trials", 100000, "Upper bound on trials per batch")
	cmd.Flags().Int("roster-qb", 1, "QB slots")
	cmd.Flags().Int("roster-rb", 2, "RB slots")
	cmd.Flags().Int("roster-wr", 3, "WR slots")
	cmd.Flags().Int("roster-te", 1, "TE slots")
	cmd.Flags().Int("roster-flex", 1, "FLEX slots (RB/WR/TE)")
	cmd.Flags().StringP("output", "o", report.FormatTable, "Output format: table, json or yaml")
	cmd.Flags().String("chart", "", "Also write an HTML bar chart to this path")

	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	engine, err := draft.NewEngine(a.cfg.EngineConfig(), nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := a.pools.Current(ctx)
	if err != nil {
		return err
	}

	progressChan := make(chan simulator.Progress, 100)
	done := make(chan struct{})
	go logProgress(a.logger, progressChan, done)

	runner := simulator.NewRunner(engine, pool, a.cfg.Workers, a.logger)
	summary, err := runner.Run(ctx, a.cfg.Trials, progressChan)
	close(progressChan)
	<-done
	if err != nil {
		return err
	}

	rep := report.New(summary, a.cfg.Randomness, a.cfg.TopK)

	format, _ := cmd.Flags().GetString("output")
	if err := rep.Write(cmd.OutOrStdout(), format); err != nil {
		return err
	}

	if chartPath, _ := cmd.Flags().GetString("chart"); chartPath != "" {
		if err := rep.RenderPickChartFile(chartPath, report.DefaultChartConfig()); err != nil {
			return err
		}
		a.logger.WithField("path", chartPath).Info("Pick chart written")
	}
	return nil
}

// logProgress logs every tenth progress update until progressChan closes
func logProgress(log *logrus.Logger, progressChan <-chan simulator.Progress, done chan<- struct{}) {
	defer close(done)

	lastDecile := -1
	for p := range progressChan {
		decile := p.Completed + p.Dropped
		if p.TotalTrials > 0 {
			decile = decile * 10 / p.TotalTrials
		}
		if decile == lastDecile {
			continue
		}
		lastDecile = decile
		log.WithFields(logrus.Fields{
			"simulation_id": p.SimulationID,
			"completed":     p.Completed,
			"dropped":       p.Dropped,
			"total":         p.TotalTrials,
			"eta":           p.EstimatedTimeRemaining.Round(time.Millisecond).String(),
		}).Infof("Simulation %d%% complete", decile*10)
	}
}
