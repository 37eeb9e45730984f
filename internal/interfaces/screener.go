package interfaces

import (
	"context"
	"time"

	"dividend-screener/internal/types"
)

// PageFetcher retrieves the company page of a symbol from the data provider
type PageFetcher interface {
	// FetchPage returns the raw body for HTTP 200, an error otherwise
	FetchPage(ctx context.Context, symbol string) ([]byte, error)
}

// MetricsExtractor pulls ratios out of a company page
type MetricsExtractor interface {
	// Extract always returns the metrics it found; the error describes
	// labels whose value could not be located
	Extract(body []byte) (types.ScrapedMetrics, error)
}

// PageCache stores fetched page bodies
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}
