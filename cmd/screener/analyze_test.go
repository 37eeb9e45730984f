package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"dividend-screener/internal/portfolio"
	"dividend-screener/internal/store"
	"dividend-screener/internal/types"
)

func TestReadHoldingsFile(t *testing.T) {
	h, err := readHoldingsFile("testdata/holdings.csv", portfolio.DefaultColumns())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(h.Requests) != 3 {
		t.Fatalf("Expected 3 holdings, got %d", len(h.Requests))
	}
	if h.Requests[2].Symbol != "COALINDIA" {
		t.Errorf("Expected COALINDIA, got %s", h.Requests[2].Symbol)
	}
	if len(h.Sheet.Header) != 4 {
		t.Errorf("Expected sector column carried through, got %v", h.Sheet.Header)
	}

	if _, err := readHoldingsFile("testdata/missing.csv", portfolio.DefaultColumns()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestAnalyzeOverride(t *testing.T) {
	c := &analyzeCmd{mode: "sequential", workers: 0, format: "json", symbolCol: "Ticker"}
	cfg := store.Default()
	c.override(cfg)

	if cfg.Pipeline.Mode != "SEQUENTIAL" {
		t.Errorf("Expected SEQUENTIAL, got %s", cfg.Pipeline.Mode)
	}
	if cfg.Report.Format != "JSON" {
		t.Errorf("Expected JSON, got %s", cfg.Report.Format)
	}
	if cfg.Input.SymbolColumn != "Ticker" || cfg.Input.PriceColumn != "Buying Price" {
		t.Errorf("Unexpected input columns %+v", cfg.Input)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestSummaryLine(t *testing.T) {
	table := &types.Table{
		Rows: []types.RowResult{{}, {Errors: []string{"fetch failed"}}},
		Summary: types.PortfolioSummary{
			TotalValue:            decimal.NewFromInt(2000),
			TotalDividend:         decimal.NewFromInt(20),
			TotalAvgDividendYield: decimal.NewNullDecimal(decimal.NewFromInt(1)),
		},
	}
	line := summaryLine(table)
	if !strings.HasPrefix(line, "Total Avg Dividend Yield: 1.00%") {
		t.Errorf("Unexpected summary %q", line)
	}
	if !strings.Contains(line, "1/2 rows with errors") {
		t.Errorf("Expected failure count in %q", line)
	}

	table.Summary.TotalAvgDividendYield = decimal.NullDecimal{}
	if !strings.Contains(summaryLine(table), "n/a") {
		t.Error("Expected n/a for undefined yield")
	}
}
