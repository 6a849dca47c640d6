package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "timeline",
		Short:        "Wallet balance timeline builder",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the balance timeline for an address",
		RunE:  runBuild,
	}

	buildCmd.Flags().String("address", "", "wallet address")
	buildCmd.Flags().String("base-url", "", "explorer API base URL")
	buildCmd.Flags().String("out-prefix", "", "output path prefix")
	buildCmd.Flags().Int("limit", 100, "page size for the tx feed")
	buildCmd.Flags().Duration("sleep", 250*time.Millisecond, "politeness sleep between pages")
	buildCmd.Flags().Int("max-pages", 0, "page cap, 0 means unbounded")
	buildCmd.Flags().Int("concurrency", 8, "concurrent detail fetches")
	buildCmd.Flags().String("cache-dir", "tx_cache", "detail cache directory")
	buildCmd.Flags().String("cache-db", "", "detail cache bbolt file (overrides cache-dir)")
	buildCmd.Flags().Bool("force-refresh", false, "bypass cache reads, refetch all details")
	buildCmd.Flags().Bool("no-calibrate", false, "skip current balance query, relative curve from 0")
	buildCmd.Flags().Int("tail", 25, "rows in the tail CSV, 0 disables")
	buildCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(buildCmd)

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the current balance of an address",
		RunE:  runBalance,
	}

	balanceCmd.Flags().String("address", "", "wallet address")
	balanceCmd.Flags().String("base-url", "", "explorer API base URL")

	root.AddCommand(balanceCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a timeline JSONL to Postgres or Kafka",
		RunE:  runExport,
	}

	exportCmd.Flags().String("in", "", "input timeline JSONL path")
	exportCmd.Flags().String("address", "", "wallet address the timeline belongs to")
	exportCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	exportCmd.Flags().StringSlice("kafka-brokers", nil, "Kafka broker addresses (comma-separated)")
	exportCmd.Flags().String("kafka-topic", "timeline.entries", "Kafka topic")
	exportCmd.Flags().Int("batch-size", 1000, "batch size for sinks")
	exportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(exportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
