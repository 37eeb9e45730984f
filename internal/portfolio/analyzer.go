package portfolio

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"dividend-screener/internal/interfaces"
	"dividend-screener/internal/logger"
	"dividend-screener/internal/trace"
	"dividend-screener/internal/types"
)

// Analyzer is the scrape-and-aggregate pipeline
type Analyzer struct {
	fetcher        interfaces.PageFetcher
	extractor      interfaces.MetricsExtractor
	strategy       Strategy
	requestTimeout time.Duration
	now            func() time.Time
}

var _ interfaces.Analyzer = (*Analyzer)(nil)

type Option func(*Analyzer)

// WithStrategy selects how symbols are fetched; the default is Sequential
func WithStrategy(s Strategy) Option {
	return func(a *Analyzer) {
		a.strategy = s
	}
}

// WithRequestTimeout bounds each fetch+extract; zero disables the bound
func WithRequestTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.requestTimeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func NewAnalyzer(fetcher interfaces.PageFetcher, extractor interfaces.MetricsExtractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:   fetcher,
		extractor: extractor,
		strategy:  Sequential{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scrape fetches and extracts one symbol. A fetch failure yields all-absent
// metrics; a malformed page yields whatever could be read. Both are
// reported through Err.
func (a *Analyzer) Scrape(ctx context.Context, symbol string) types.ScrapeResult {
	symbol = strings.TrimSpace(symbol)
	result := types.ScrapeResult{Symbol: symbol}

	ctx, span := trace.StartSpan(ctx, "portfolio.Scrape", attribute.String("symbol", symbol))
	defer span.End()

	if a.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.requestTimeout)
		defer cancel()
	}

	body, err := a.fetcher.FetchPage(ctx, symbol)
	if err != nil {
		if !errors.Is(err, types.ErrFetchFailed) {
			err = errors.Join(types.ErrFetchFailed, err)
		}
		span.RecordError(err)
		result.Err = err
		return result
	}

	result.Metrics, result.Err = a.extractor.Extract(body)
	if result.Err != nil {
		span.RecordError(result.Err)
	}
	return result
}

// Analyze scrapes every symbol with the configured strategy and aggregates
// the results. The returned table has exactly one row per request, in order.
func (a *Analyzer) Analyze(ctx context.Context, reqs []types.SymbolRequest) *types.Table {
	ctx, span := trace.StartSpan(ctx, "portfolio.Analyze",
		attribute.Int("rows", len(reqs)),
		attribute.String("strategy", a.strategy.Name()),
	)
	defer span.End()

	logger.Info(ctx, "Starting portfolio analysis", "rows", len(reqs), "strategy", a.strategy.Name())
	start := a.now()

	normalized := make([]types.SymbolRequest, len(reqs))
	for i, req := range reqs {
		req.Symbol = strings.TrimSpace(req.Symbol)
		normalized[i] = req
	}

	results := make([]types.ScrapeResult, len(normalized))
	a.strategy.Run(ctx, len(normalized), func(ctx context.Context, i int) {
		results[i] = a.Scrape(ctx, normalized[i].Symbol)
	})

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			logger.RowFailure(ctx, res.Symbol, types.FailureKind(res.Err), res.Err)
		}
	}

	table := Aggregate(normalized, results)
	table.GeneratedAt = a.now()

	for i, row := range table.Rows {
		if row.Metrics.DividendYield != nil && !row.TotalDividend.Valid {
			logger.RowFailure(ctx, row.Request.Symbol, "MALFORMED_PERCENTAGE",
				types.ErrMalformedPercentage, "row", i, "dividend_yield", *row.Metrics.DividendYield)
		}
	}

	logger.Info(ctx, "Portfolio analysis completed",
		"rows", len(table.Rows),
		"failed_rows", failures,
		"total_value", table.Summary.TotalValue.String(),
		"total_avg_dividend_yield", nullString(table.Summary.TotalAvgDividendYield),
		"duration_ms", a.now().Sub(start).Milliseconds(),
	)
	return table
}
