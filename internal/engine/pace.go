package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out consecutive per-video iterations of a batch.
// The first Wait returns immediately.
type Pacer struct {
	lim *rate.Limiter
}

// NewPacer returns a pacer allowing one iteration per interval.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next iteration may start or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
