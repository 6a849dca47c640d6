package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"balanceScope/internal/api"
	"balanceScope/internal/cache"
	"balanceScope/internal/export"
	"balanceScope/internal/fetch"
	"balanceScope/internal/ledger"
	"balanceScope/internal/model"
)

// RunConfig holds runtime settings for the build pipeline.
type RunConfig struct {
	Address      string
	PageSize     int
	MaxPages     int
	PoliteSleep  time.Duration
	Concurrency  int
	ForceRefresh bool
	Calibrate    bool
}

// Runner executes the fetch → resolve → classify → reconstruct
// pipeline and hands the series to the configured sinks.
type Runner struct {
	cfg    RunConfig
	client *api.Client
	cache  cache.DetailCache
	sinks  []export.Sink
	logger *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, client *api.Client, detailCache cache.DetailCache, sinks []export.Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, client: client, cache: detailCache, sinks: sinks, logger: logger}
}

// Result summarizes one build run.
type Result struct {
	Series         []model.TimelineEntry
	StartBalance   decimal.Decimal
	CurrentBalance *decimal.Decimal
}

// Run executes the pipeline. Zero usable records is a clean no-op; a
// failed page fetch or a zero-block entry in the final series aborts.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.client == nil {
		return nil, fmt.Errorf("api client is nil")
	}
	if r.cache == nil {
		return nil, fmt.Errorf("detail cache is nil")
	}
	if r.cfg.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	pager := fetch.NewPager(fetch.PagerConfig{
		Address:     r.cfg.Address,
		PageSize:    r.cfg.PageSize,
		MaxPages:    r.cfg.MaxPages,
		PoliteSleep: r.cfg.PoliteSleep,
	}, r.client, r.logger)

	items, err := pager.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tx list: %w", err)
	}

	hashes := fetch.UniqueHashes(items)
	r.logger.Info("references fetched",
		zap.Int("items", len(items)),
		zap.Int("unique_hashes", len(hashes)),
	)

	resolver := fetch.NewResolver(fetch.ResolverConfig{
		Concurrency:  r.cfg.Concurrency,
		ForceRefresh: r.cfg.ForceRefresh,
	}, r.client, r.cache, r.logger)

	details, err := resolver.ResolveAll(ctx, hashes)
	if err != nil {
		return nil, fmt.Errorf("resolve details: %w", err)
	}

	entries := make([]model.TimelineEntry, 0, len(items))
	for _, item := range items {
		h := fetch.TxHashFromItem(item)
		if h == "" {
			continue
		}
		detail, ok := details[h]
		if !ok {
			continue
		}
		if entry, ok := ledger.Classify(r.cfg.Address, detail); ok {
			entries = append(entries, entry)
		}
	}
	r.logger.Info("records classified", zap.Int("usable", len(entries)))

	if len(entries) == 0 {
		r.logger.Warn("no usable records")
		return &Result{}, nil
	}

	var current *decimal.Decimal
	if r.cfg.Calibrate {
		balance, ok, err := r.client.Balance(ctx, r.cfg.Address)
		switch {
		case err != nil:
			r.logger.Warn("balance query failed, building relative curve", zap.Error(err))
		case ok:
			current = &balance
		}
	}

	series, start, err := ledger.Reconstruct(entries, current)
	if err != nil {
		return nil, fmt.Errorf("reconstruct balance: %w", err)
	}

	for _, sink := range r.sinks {
		if err := sink.WriteSeries(series); err != nil {
			return nil, fmt.Errorf("write series: %w", err)
		}
	}

	r.logger.Info("timeline complete",
		zap.Int("entries", len(series)),
		zap.String("start_balance", start.String()),
		zap.Bool("calibrated", current != nil),
	)

	return &Result{Series: series, StartBalance: start, CurrentBalance: current}, nil
}
