package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/folio"
	"golang.org/x/time/rate"
)

// DefaultPause is the politeness pause between listing page fetches.
const DefaultPause = 250 * time.Millisecond

var _ folio.Limiter = (*Limiter)(nil)

// Limiter enforces a fixed pause between successive requests using a token
// bucket with a burst of 1. The first Wait returns immediately.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter that allows one request per pause. A
// non-positive pause disables limiting.
func NewLimiter(pause time.Duration) *Limiter {
	if pause <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(pause), 1)}
}

// Wait blocks until the pause since the previous request has elapsed.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
