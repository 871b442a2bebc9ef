package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrFetchFailed marks a URL abandoned after every retry attempt. Callers
// treat it as "no data for this URL" and carry on with the next item.
var ErrFetchFailed = errors.New("crawler: fetch failed after retries")

// RetryingFetcher decorates a Fetcher with bounded retries and exponential
// backoff. Each failed attempt logs a warning; exhaustion logs one error and
// returns ErrFetchFailed.
type RetryingFetcher struct {
	base      Fetcher
	attempts  int
	baseDelay time.Duration
	pause     pauser
	logger    *zap.Logger
}

// NewRetryingFetcher wraps base with the retry policy. attempts is the total
// attempt budget per URL; baseDelay doubles after each failure (1s, 2s, 4s
// with the defaults).
func NewRetryingFetcher(base Fetcher, attempts int, baseDelay time.Duration, logger *zap.Logger) *RetryingFetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingFetcher{
		base:      base,
		attempts:  attempts,
		baseDelay: baseDelay,
		pause:     &timerPauser{},
		logger:    logger,
	}
}

// Fetch attempts the URL until success or the attempt budget runs out.
func (f *RetryingFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		requestsTotal.Inc()
		page, err := f.base.Fetch(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Page{}, err
		}
		lastErr = err
		retriesTotal.Inc()
		f.logger.Warn("Fetch attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", f.attempts),
			zap.Error(err),
		)
		if attempt < f.attempts {
			f.pause.Pause(ctx, f.backoff(attempt))
		}
	}

	fetchFailuresTotal.Inc()
	f.logger.Error("Giving up on URL after retries",
		zap.String("url", rawURL),
		zap.Int("attempts", f.attempts),
		zap.Error(lastErr),
	)
	return Page{}, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, lastErr)
}

// backoff returns the delay before the next attempt: baseDelay doubled per
// completed attempt. Deterministic on purpose so the policy is testable.
func (f *RetryingFetcher) backoff(attempt int) time.Duration {
	return f.baseDelay << (attempt - 1)
}
