package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"balanceScope/internal/api"
	"balanceScope/internal/cache"
	"balanceScope/internal/config"
	"balanceScope/internal/export"
	"balanceScope/internal/timeline"
)

func runBuild(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBuild(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Address == "" {
		return fmt.Errorf("address is required")
	}
	if cfg.OutPrefix == "" {
		return fmt.Errorf("out-prefix is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(cfg.BaseURL)

	var detailCache cache.DetailCache
	if cfg.CacheDB != "" {
		detailCache, err = cache.NewBoltCache(cfg.CacheDB)
	} else {
		detailCache, err = cache.NewDirCache(cfg.CacheDir)
	}
	if err != nil {
		return fmt.Errorf("open detail cache: %w", err)
	}
	defer detailCache.Close()

	sinks := []export.Sink{
		export.NewJSONLSink(cfg.OutPrefix + ".timeline.jsonl"),
		export.NewCSVSink(cfg.OutPrefix + ".timeline.csv"),
	}
	if cfg.Tail > 0 {
		sinks = append(sinks, export.NewTailCSVSink(fmt.Sprintf("%s.tail_%d.csv", cfg.OutPrefix, cfg.Tail), cfg.Tail))
	}

	runner := timeline.NewRunner(timeline.RunConfig{
		Address:      cfg.Address,
		PageSize:     cfg.Limit,
		MaxPages:     cfg.MaxPages,
		PoliteSleep:  cfg.Sleep,
		Concurrency:  cfg.Concurrency,
		ForceRefresh: cfg.ForceRefresh,
		Calibrate:    !cfg.NoCalibrate,
	}, client, detailCache, sinks, logger)

	logger.Info("build start",
		zap.String("address", cfg.Address),
		zap.String("out_prefix", cfg.OutPrefix),
		zap.Int("limit", cfg.Limit),
		zap.Int("max_pages", cfg.MaxPages),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Bool("force_refresh", cfg.ForceRefresh),
		zap.Bool("calibrate", !cfg.NoCalibrate),
	)

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if result.CurrentBalance != nil {
		logger.Info("calibrated to current balance", zap.String("balance", result.CurrentBalance.String()))
	} else {
		logger.Info("no calibration, curve starts at 0")
	}
	return nil
}
