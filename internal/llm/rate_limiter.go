package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a TextGenerator with a token-bucket limiter. Complete
// waits for a token, so a burst of keystroke-driven requests queues rather
// than hammering the backend; the caller's context bounds the wait.
type RateLimited struct {
	next    TextGenerator
	limiter *rate.Limiter
}

// NewRateLimited allows perSecond requests with the given burst.
func NewRateLimited(next TextGenerator, perSecond float64, burst int) *RateLimited {
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Complete waits for the limiter, then delegates.
func (r *RateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm: rate limit wait: %w", err)
	}
	return r.next.Complete(ctx, prompt)
}

// GetModel returns the wrapped generator's model.
func (r *RateLimited) GetModel() string {
	return r.next.GetModel()
}

// HealthCheck delegates when the wrapped generator supports it.
func (r *RateLimited) HealthCheck(ctx context.Context) error {
	if hc, ok := r.next.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

var (
	_ TextGenerator = (*RateLimited)(nil)
	_ HealthChecker = (*RateLimited)(nil)
)
