package screenerobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"dividend-screener/internal/interfaces"
	"dividend-screener/internal/logger"
	"dividend-screener/internal/trace"
)

type observableFetcher struct {
	fetcher interfaces.PageFetcher
}

var _ interfaces.PageFetcher = (*observableFetcher)(nil)

// Wrap adds logging and tracing around a PageFetcher
func Wrap(fetcher interfaces.PageFetcher) interfaces.PageFetcher {
	return &observableFetcher{fetcher: fetcher}
}

func (o *observableFetcher) FetchPage(ctx context.Context, symbol string) ([]byte, error) {
	ctx, span := trace.StartSpan(ctx, "screener.FetchPage", attribute.String("symbol", symbol))
	defer span.End()

	logger.Debug(ctx, "Fetching company page", "symbol", symbol)
	start := time.Now()

	body, err := o.fetcher.FetchPage(ctx, symbol)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "Company page fetch failed",
			"symbol", symbol,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("bytes", len(body)))
	logger.Debug(ctx, "Company page fetched",
		"symbol", symbol,
		"bytes", len(body),
		"duration_ms", duration.Milliseconds(),
	)
	return body, nil
}
