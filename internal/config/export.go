package config

import (
	"github.com/spf13/pflag"
)

// ExportConfig holds configuration for the export command.
type ExportConfig struct {
	Input        string
	Address      string
	PGDSN        string
	KafkaBrokers []string
	KafkaTopic   string
	BatchSize    int
	LogLevel     string
}

// LoadExport merges config file, environment variables, and flags into
// ExportConfig.
func LoadExport(cfgFile string, flags *pflag.FlagSet) (ExportConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"kafka-topic": "timeline.entries",
		"batch-size":  1000,
		"log-level":   "info",
	})
	if err != nil {
		return ExportConfig{}, err
	}

	cfg := ExportConfig{
		Input:        v.GetString("in"),
		Address:      v.GetString("address"),
		PGDSN:        v.GetString("pg-dsn"),
		KafkaBrokers: v.GetStringSlice("kafka-brokers"),
		KafkaTopic:   v.GetString("kafka-topic"),
		BatchSize:    v.GetInt("batch-size"),
		LogLevel:     v.GetString("log-level"),
	}
	return cfg, nil
}
