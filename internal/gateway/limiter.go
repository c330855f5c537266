package gateway

import (
	"context"
	"time"

	"eth-telegram-bot/internal/metrics"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Limiter is a token bucket shared by every caller of one provider.
type Limiter struct {
	limiter  *rate.Limiter
	provider string
}

// NewLimiter allows rps requests per second with the given burst. rps <= 0 disables limiting.
func NewLimiter(rps float64, burst int, provider string) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter:  rate.NewLimiter(limit, burst),
		provider: provider,
	}
}

// Wait blocks until one request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	r := l.limiter.Reserve()
	if !r.OK() {
		return errors.New("rate: cannot reserve token")
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	metrics.Default.RateLimitWaits.WithLabelValues(l.provider).Inc()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
