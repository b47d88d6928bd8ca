package convert

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/noteforge/noteforge/internal/domain"
)

// RateLimited throttles calls to an inner converter.
type RateLimited struct {
	inner   domain.PageConverter
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a token bucket of rps tokens per second.
// A burst below one is raised to one.
func NewRateLimited(inner domain.PageConverter, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Convert waits for a token and then delegates.
func (r *RateLimited) Convert(ctx context.Context, image domain.PageImage, role domain.PageRole) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", domain.ConversionError("rate limiter wait aborted", err)
	}
	return r.inner.Convert(ctx, image, role)
}
