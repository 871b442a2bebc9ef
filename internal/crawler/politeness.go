package crawler

import (
	"context"
	"time"
)

// pauser abstracts how the crawler waits between requests so tests can run
// without real sleeps.
type pauser interface {
	Pause(ctx context.Context, delay time.Duration)
}

type timerPauser struct{}

func (p *timerPauser) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
