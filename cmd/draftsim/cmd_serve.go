package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/draft-sim/internal/api"
	"github.com/stitts-dev/draft-sim/pkg/logger"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation HTTP API",
		RunE:  runServe,
	}

	cmd.Flags().String("port", "8080", "HTTP port")
	cmd.Flags().Int("trials", 10000, "Default trials per request")
	cmd.Flags().Int("max-trials", 100000, "Upper bound on trials per request")
	cmd.Flags().Int("workers", 0, "Parallel workers per request (0 for one per CPU)")
	cmd.Flags().Duration("pool-refresh-interval", 0, "Reload the player pool on this interval (0 disables)")
	cmd.Flags().Int("simulation-rate-limit", 30, "Simulation requests per minute per client (0 disables)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a missing pool is reported by /ready rather than stopping the server
	if err := a.pools.Start(ctx); err != nil {
		a.logger.WithError(err).Error("Initial player pool load failed")
	}

	router := api.NewRouter(a.cfg, a.pools, a.db, a.cache, a.logger)
	for _, route := range router.Routes() {
		a.logger.Debugf("%s %s", route.Method, route.Path)
	}

	log := logger.WithService("draftsim")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", a.cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("source", a.pools.SourceName()).Infof("Starting server on port %s", a.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
	return nil
}
