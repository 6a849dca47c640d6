package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"balanceScope/internal/config"
	"balanceScope/internal/export"
	"balanceScope/internal/export/postgres"
)

func runExport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadExport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Address == "" {
		return fmt.Errorf("address is required")
	}
	if cfg.PGDSN == "" && len(cfg.KafkaBrokers) == 0 {
		return fmt.Errorf("at least one of pg-dsn or kafka-brokers is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	series, err := export.ReadSeries(cfg.Input)
	if err != nil {
		return fmt.Errorf("read timeline: %w", err)
	}

	logger.Info("export start",
		zap.String("in", cfg.Input),
		zap.String("address", cfg.Address),
		zap.Int("entries", len(series)),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
	)

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		for start := 0; start < len(series); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(series) {
				end = len(series)
			}
			if err := store.UpsertEntries(ctx, cfg.Address, series[start:end]); err != nil {
				return fmt.Errorf("upsert entries: %w", err)
			}
		}
		logger.Info("postgres export complete", zap.Int("entries", len(series)))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := export.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.BatchSize, logger)
		defer publisher.Close()

		if err := publisher.Publish(ctx, series); err != nil {
			return fmt.Errorf("publish entries: %w", err)
		}
		logger.Info("kafka export complete", zap.Int("entries", len(series)))
	}

	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
