package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BuildConfig holds configuration for the build command.
type BuildConfig struct {
	Address      string
	BaseURL      string
	OutPrefix    string
	Limit        int
	Sleep        time.Duration
	MaxPages     int
	Concurrency  int
	CacheDir     string
	CacheDB      string
	ForceRefresh bool
	NoCalibrate  bool
	Tail         int
	LogLevel     string
}

// LoadBuild merges config file, environment variables, and flags into
// BuildConfig.
func LoadBuild(cfgFile string, flags *pflag.FlagSet) (BuildConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"base-url":    "",
		"limit":       100,
		"sleep":       250 * time.Millisecond,
		"concurrency": 8,
		"cache-dir":   "tx_cache",
		"tail":        25,
		"log-level":   "info",
	})
	if err != nil {
		return BuildConfig{}, err
	}

	cfg := BuildConfig{
		Address:      v.GetString("address"),
		BaseURL:      v.GetString("base-url"),
		OutPrefix:    v.GetString("out-prefix"),
		Limit:        v.GetInt("limit"),
		Sleep:        v.GetDuration("sleep"),
		MaxPages:     v.GetInt("max-pages"),
		Concurrency:  v.GetInt("concurrency"),
		CacheDir:     v.GetString("cache-dir"),
		CacheDB:      v.GetString("cache-db"),
		ForceRefresh: v.GetBool("force-refresh"),
		NoCalibrate:  v.GetBool("no-calibrate"),
		Tail:         v.GetInt("tail"),
		LogLevel:     v.GetString("log-level"),
	}
	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("TIMELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
