package crawl

import (
	"context"
	"time"
)

// maxRetryDelay caps a single backoff delay.
const maxRetryDelay = 30 * time.Second

// BackoffDelays returns the delays slept before each retry when a WorkItem
// may be attempted maxAttempts times: base, 2*base, 4*base and so on,
// capped at 30s. The result has maxAttempts-1 entries.
func BackoffDelays(base time.Duration, maxAttempts int) []time.Duration {
	if maxAttempts <= 1 {
		return nil
	}
	delays := make([]time.Duration, maxAttempts-1)
	d := base
	for i := range delays {
		if d > maxRetryDelay {
			d = maxRetryDelay
		}
		delays[i] = d
		d *= 2
	}
	return delays
}

// AttemptFunc performs one attempt. attempt starts at 1.
type AttemptFunc func(ctx context.Context, attempt int) error

// RetryFunc is called before sleeping ahead of the next attempt.
type RetryFunc func(attempt int, delay time.Duration, err error)

// Retry calls fn until it succeeds or maxAttempts attempts have failed,
// sleeping delays[i] after the (i+1)th failure. The last delay is reused if
// delays is shorter than needed. Cancellation of ctx stops further attempts.
// It returns the number of attempts made and the last error.
func Retry(ctx context.Context, maxAttempts int, delays []time.Duration, fn AttemptFunc, onRetry RetryFunc) (int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if attempt == maxAttempts || ctx.Err() != nil {
			return attempt, lastErr
		}

		var delay time.Duration
		if len(delays) > 0 {
			delay = delays[min(attempt-1, len(delays)-1)]
		}
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}

		if err := sleep(ctx, delay); err != nil {
			return attempt, lastErr
		}
	}
	return maxAttempts, lastErr
}

// sleep waits for d or until ctx is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
