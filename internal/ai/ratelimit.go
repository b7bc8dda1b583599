package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

// Compile-time interface check.
var _ Completer = (*RateLimited)(nil)

// DefaultRateLimit is the default number of completion calls per second.
const DefaultRateLimit = 2

// RateLimited bounds the rate of outbound calls to a Completer. Callers
// block until a token is available; nothing is retried.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter of qps calls per second.
func NewRateLimited(next Completer, qps int) *RateLimited {
	if qps <= 0 {
		qps = DefaultRateLimit
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(qps), qps),
	}
}

// Name returns the wrapped provider's name.
func (r *RateLimited) Name() string {
	return r.next.Name()
}

// Complete waits for the limiter, then delegates.
func (r *RateLimited) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", apperr.Unavailable("The completion service is busy", err)
	}
	return r.next.Complete(ctx, systemPrompt, prompt)
}
