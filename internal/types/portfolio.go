package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// SymbolRequest is one portfolio holding as supplied by the caller.
type SymbolRequest struct {
	Symbol      string          `json:"symbol"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ScrapedMetrics holds the ratios read from a company page, verbatim as
// displayed. A nil field means the ratio was not found.
type ScrapedMetrics struct {
	ROCE          *string `json:"roce"`
	ROE           *string `json:"roe"`
	PE            *string `json:"pe"`
	DividendYield *string `json:"dividend_yield"`
}

// Has reports whether at least one ratio was extracted.
func (m ScrapedMetrics) Has() bool {
	return m.ROCE != nil || m.ROE != nil || m.PE != nil || m.DividendYield != nil
}

// ScrapeResult is the outcome of fetching and extracting one symbol.
// Metrics may be partial when Err is non-nil.
type ScrapeResult struct {
	Symbol  string
	Metrics ScrapedMetrics
	Err     error
}

type RowResult struct {
	Request          SymbolRequest       `json:"request"`
	Metrics          ScrapedMetrics      `json:"metrics"`
	TotalValue       decimal.Decimal     `json:"total_value"`
	DividendPerShare decimal.NullDecimal `json:"dividend_per_share"`
	TotalDividend    decimal.NullDecimal `json:"total_dividend"`
	// Only set on the first row of a table.
	TotalAvgDividendYield decimal.NullDecimal `json:"total_avg_dividend_yield"`
	Errors                []string            `json:"errors,omitempty"`
}

type PortfolioSummary struct {
	TotalValue            decimal.Decimal     `json:"total_value"`
	TotalDividend         decimal.Decimal     `json:"total_dividend"`
	TotalAvgDividendYield decimal.NullDecimal `json:"total_avg_dividend_yield"`
}

// InputSheet carries the caller's original columns so they can be
// reproduced in front of the computed ones.
type InputSheet struct {
	Header  []string   `json:"header"`
	Records [][]string `json:"records"`
}

// Table is the merged, row-aligned output of one pipeline run.
type Table struct {
	Input       *InputSheet      `json:"input,omitempty"`
	Rows        []RowResult      `json:"rows"`
	Summary     PortfolioSummary `json:"summary"`
	GeneratedAt time.Time        `json:"generated_at"`
}
