package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pricewatch/pricewatch/internal/config"
	"github.com/pricewatch/pricewatch/internal/engine"
	"github.com/pricewatch/pricewatch/internal/store"
	"github.com/pricewatch/pricewatch/pkg/logger"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single monitoring sweep and exit",
	RunE:  runSweepOnce,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweepOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	s, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer s.Close()

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(s, fetcher, notifier,
		engine.WithLogger(log),
		engine.WithConcurrency(cfg.Schedule.Concurrency),
	)

	stats, err := eng.RunSweep(context.Background())
	if err != nil {
		return fmt.Errorf("running sweep: %w", err)
	}

	cmd.Printf("swept %d products: %d checked, %d failed\n",
		stats.Total, stats.Checked, stats.Failed)
	return nil
}
