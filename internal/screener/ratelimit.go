package screener

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"dividend-screener/internal/interfaces"
	"dividend-screener/internal/types"
)

// RateLimitedFetcher spaces out requests to the data provider
type RateLimitedFetcher struct {
	inner   interfaces.PageFetcher
	limiter *rate.Limiter
}

var _ interfaces.PageFetcher = (*RateLimitedFetcher)(nil)

// NewRateLimitedFetcher allows perSecond requests with the given burst
func NewRateLimitedFetcher(inner interfaces.PageFetcher, perSecond float64, burst int) *RateLimitedFetcher {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (f *RateLimitedFetcher) FetchPage(ctx context.Context, symbol string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", types.ErrFetchFailed, err)
	}
	return f.inner.FetchPage(ctx, symbol)
}
