package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/pagecrawl"
	"golang.org/x/time/rate"
)

var _ pagecrawl.RateLimiter = (*Limiter)(nil)

// Limiter paces navigation starts across the whole worker pool with a
// token bucket holding a single token.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter that lets one request start per interval.
// A non-positive interval disables pacing.
func NewLimiter(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next request may start.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
