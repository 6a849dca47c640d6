package fetch

import (
	"context"
	"time"
)

// pageBackoff is the sleep before retrying a failed page request:
// 0.5*(attempt+1)^2 seconds, capped at 5s.
func pageBackoff(attempt int) time.Duration {
	n := attempt + 1
	d := time.Duration(n*n) * 500 * time.Millisecond
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

// detailBackoff is the linear sleep before retrying a failed detail
// request: 0.3*(attempt+1) seconds.
func detailBackoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * 300 * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
