package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luarss/cea-live/internal/config"
	"github.com/luarss/cea-live/internal/logging"
	"github.com/luarss/cea-live/internal/precomp"
	"github.com/luarss/cea-live/internal/store"
)

var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Rebuild the pre-computed aggregate tables",
	Long: `Rebuild top_agents, monthly_stats, monthly_stats_by_dim,
property_type_stats, transaction_type_stats, and town_stats from the
raw transactions table, then ANALYZE so the serving process's fast
paths have accurate planner statistics.

Safe to rerun: each table is replaced, not appended to.`,
	RunE: runPrecompute,
}

func init() {
	rootCmd.AddCommand(precomputeCmd)
}

func runPrecompute(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewProduction(logging.Level(cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	storePath := filepath.Join(cfg.Store.DataDir, "cea-transactions.db")
	s, err := store.Open(ctx, storePath, store.ReadWrite)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := precomp.Run(ctx, s.Raw(), logger); err != nil {
		return fmt.Errorf("precompute: %w", err)
	}

	logger.Info(ctx, "precompute complete", logging.String("store", storePath))
	return nil
}
