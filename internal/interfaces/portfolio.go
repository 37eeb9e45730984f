package interfaces

import (
	"context"

	"dividend-screener/internal/types"
)

// Analyzer runs the scrape-and-aggregate pipeline over a portfolio
type Analyzer interface {
	// Analyze returns one row per request, in request order
	Analyze(ctx context.Context, reqs []types.SymbolRequest) *types.Table

	// Scrape fetches and extracts the ratios of a single symbol
	Scrape(ctx context.Context, symbol string) types.ScrapeResult
}
