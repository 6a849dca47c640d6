package fetch

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"balanceScope/internal/api"
	"balanceScope/internal/cache"
	"balanceScope/internal/model"
	"balanceScope/internal/scalar"
)

// ResolverConfig holds detail resolution settings.
type ResolverConfig struct {
	Concurrency  int
	ForceRefresh bool
	MaxAttempts  int
}

// Resolver resolves transaction hashes to detail records through a
// content-addressed cache, fanning network fetches out over a bounded
// worker pool.
type Resolver struct {
	cfg    ResolverConfig
	client *api.Client
	cache  cache.DetailCache
	logger *zap.Logger
}

// NewResolver builds a Resolver with its dependencies.
func NewResolver(cfg ResolverConfig, client *api.Client, detailCache cache.DetailCache, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	return &Resolver{cfg: cfg, client: client, cache: detailCache, logger: logger}
}

type resolved struct {
	hash   string
	detail *model.TxDetail
}

// ResolveAll resolves every unique hash to its detail record. The
// returned map has no entry for hashes that are confirmed absent or
// whose fetch attempts were exhausted; those transactions degrade to
// "no detail" rather than aborting the run. Results are collected in
// completion order, but the map is order-independent by construction.
func (r *Resolver) ResolveAll(ctx context.Context, hashes []string) (map[string]model.TxDetail, error) {
	unique := dedupe(hashes)
	if len(unique) == 0 {
		return map[string]model.TxDetail{}, nil
	}

	workers := r.cfg.Concurrency
	if workers > len(unique) {
		workers = len(unique)
	}

	jobs := make(chan string)
	results := make(chan resolved)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range jobs {
				res := resolved{hash: h, detail: r.resolveOne(ctx, h)}
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, h := range unique {
			select {
			case jobs <- h:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]model.TxDetail, len(unique))
	done := 0
	for res := range results {
		done++
		if res.detail != nil {
			out[res.hash] = *res.detail
		}
		if done%200 == 0 {
			r.logger.Info("details resolved", zap.Int("done", done), zap.Int("total", len(unique)))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveOne reads through the cache, fetching and writing back on a
// miss. Confirmed absence and exhausted retries are both written back
// as a null marker so later runs skip the fetch. A cancelled fetch is
// neither: it leaves no cache entry, so the hash is retried next run.
func (r *Resolver) resolveOne(ctx context.Context, hash string) *model.TxDetail {
	if !r.cfg.ForceRefresh {
		raw, ok, err := r.cache.Get(hash)
		if err != nil {
			r.logger.Warn("cache read failed", zap.String("hash", hash), zap.Error(err))
		} else if ok {
			return parseDetail(hash, raw)
		}
	}

	raw, err := r.fetchDetail(ctx, hash)
	if err != nil {
		return nil
	}
	stored := raw
	if stored == nil {
		stored = cache.Null
	}
	if err := r.cache.Put(hash, stored); err != nil {
		r.logger.Warn("cache write failed", zap.String("hash", hash), zap.Error(err))
	}
	return parseDetail(hash, raw)
}

// fetchDetail fetches one detail record with bounded linear-backoff
// retries. A nil payload with a nil error means confirmed absence or
// retry exhaustion; context cancellation is reported as an error so
// callers never mistake an interrupted fetch for a missing record.
func (r *Resolver) fetchDetail(ctx context.Context, hash string) (json.RawMessage, error) {
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		raw, err := r.client.TxDetail(ctx, hash)
		if err == nil {
			if raw == nil {
				return nil, nil
			}
			return unwrapResult(raw), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Debug("detail request failed",
			zap.String("hash", hash),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if err := sleepCtx(ctx, detailBackoff(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// unwrapResult peels one result envelope off a detail payload. A
// payload that is not a JSON object yields nil.
func unwrapResult(raw json.RawMessage) json.RawMessage {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	if res, ok := scalar.Pick(obj, "result").(map[string]interface{}); ok {
		b, err := json.Marshal(res)
		if err != nil {
			return nil
		}
		return b
	}
	return raw
}

func parseDetail(hash string, raw json.RawMessage) *model.TxDetail {
	if raw == nil || cache.IsNull(raw) {
		return nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	detail := model.ParseTxDetail(hash, obj)
	return &detail
}

func dedupe(hashes []string) []string {
	seen := make(map[string]struct{}, len(hashes))
	out := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
