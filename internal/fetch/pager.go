package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"balanceScope/internal/api"
)

// PagerConfig holds pagination settings for one address.
type PagerConfig struct {
	Address     string
	PageSize    int
	MaxPages    int // 0 means unbounded
	PoliteSleep time.Duration
	MaxAttempts int
}

// Pager walks the token-paginated transaction feed. Pagination is
// inherently sequential: each page's token depends on the prior
// response, so pages are fetched strictly in order.
type Pager struct {
	cfg    PagerConfig
	client *api.Client
	logger *zap.Logger
}

// NewPager builds a Pager with its dependencies.
func NewPager(cfg PagerConfig, client *api.Client, logger *zap.Logger) *Pager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Pager{cfg: cfg, client: client, logger: logger}
}

// FetchAll retrieves every page until the token runs out, a page comes
// back empty, or the page cap is reached. Exhausting retries on any
// single page is fatal for the whole fetch: an incomplete page prefix
// would corrupt pagination state.
func (p *Pager) FetchAll(ctx context.Context) ([]map[string]interface{}, error) {
	if p.cfg.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	var out []map[string]interface{}
	token := ""
	page := 0
	for {
		if p.cfg.MaxPages > 0 && page >= p.cfg.MaxPages {
			p.logger.Info("page cap reached", zap.Int("max_pages", p.cfg.MaxPages))
			break
		}

		raw, err := p.fetchPage(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page+1, err)
		}

		items, nextToken := pageItems(raw)
		out = append(out, items...)
		page++
		token = nextToken

		p.logger.Debug("page complete",
			zap.Int("page", page),
			zap.Int("items", len(items)),
			zap.Int("total", len(out)),
			zap.Bool("token_present", token != ""),
		)

		if token == "" || len(items) == 0 {
			break
		}
		if p.cfg.PoliteSleep > 0 {
			if err := sleepCtx(ctx, p.cfg.PoliteSleep); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (p *Pager) fetchPage(ctx context.Context, token string) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt < p.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, pageBackoff(attempt-1)); err != nil {
				return nil, err
			}
		}
		raw, err := p.client.TxPage(ctx, p.cfg.Address, p.cfg.PageSize, token)
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		p.logger.Warn("page request failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", p.cfg.MaxAttempts),
			zap.Error(err),
		)
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", p.cfg.MaxAttempts, lastErr)
}
