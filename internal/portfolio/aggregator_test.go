package portfolio

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"dividend-screener/internal/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *string {
	return &s
}

func req(symbol, price, qty string) types.SymbolRequest {
	return types.SymbolRequest{Symbol: symbol, BuyingPrice: dec(price), Quantity: dec(qty)}
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"5.25%", "0.0525", false},
		{"2%", "0.02", false},
		{"0.35", "0.0035", false},
		{" 1.5 % ", "0.015", false},
		{"0", "0", false},
		{"", "", true},
		{"n/a%", "", true},
		{"1,234%", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePercentage(tt.in)
		if tt.wantErr {
			if !errors.Is(err, types.ErrMalformedPercentage) {
				t.Errorf("ParsePercentage(%q): expected ErrMalformedPercentage, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePercentage(%q): unexpected error %v", tt.in, err)
			continue
		}
		if !got.Equal(dec(tt.want)) {
			t.Errorf("ParsePercentage(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAggregateScenario(t *testing.T) {
	reqs := []types.SymbolRequest{req("ABC", "100", "10"), req("XYZ", "50", "20")}
	results := []types.ScrapeResult{
		{Symbol: "ABC", Metrics: types.ScrapedMetrics{DividendYield: ptr("2%")}},
		{Symbol: "XYZ", Err: &types.StatusError{URL: "x", StatusCode: 404}},
	}

	table := Aggregate(reqs, results)

	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}

	row0 := table.Rows[0]
	if !row0.TotalValue.Equal(dec("1000")) {
		t.Errorf("Expected row0 total value 1000, got %s", row0.TotalValue)
	}
	if !row0.TotalDividend.Valid || !row0.TotalDividend.Decimal.Equal(dec("20")) {
		t.Errorf("Expected row0 total dividend 20, got %v", row0.TotalDividend)
	}
	if !row0.DividendPerShare.Valid || !row0.DividendPerShare.Decimal.Equal(dec("2")) {
		t.Errorf("Expected row0 dividend per share 2, got %v", row0.DividendPerShare)
	}
	if !row0.TotalAvgDividendYield.Valid || !row0.TotalAvgDividendYield.Decimal.Equal(dec("1")) {
		t.Errorf("Expected total avg dividend yield 1.0, got %v", row0.TotalAvgDividendYield)
	}

	row1 := table.Rows[1]
	if !row1.TotalValue.Equal(dec("1000")) {
		t.Errorf("Expected row1 total value 1000, got %s", row1.TotalValue)
	}
	if row1.Metrics.Has() {
		t.Errorf("Expected row1 scraped fields absent, got %+v", row1.Metrics)
	}
	if row1.TotalDividend.Valid || row1.DividendPerShare.Valid {
		t.Error("Expected row1 dividend fields absent")
	}
	if row1.TotalAvgDividendYield.Valid {
		t.Error("Expected summary only on row 0")
	}
	if len(row1.Errors) != 1 {
		t.Errorf("Expected row1 to carry its fetch error, got %v", row1.Errors)
	}

	if !table.Summary.TotalValue.Equal(dec("2000")) || !table.Summary.TotalDividend.Equal(dec("20")) {
		t.Errorf("Unexpected summary %+v", table.Summary)
	}
}

func TestAggregateFractionalYield(t *testing.T) {
	table := Aggregate(
		[]types.SymbolRequest{req("DEF", "80", "3")},
		[]types.ScrapeResult{{Metrics: types.ScrapedMetrics{DividendYield: ptr("5.25%")}}},
	)

	row := table.Rows[0]
	if !row.DividendPerShare.Decimal.Equal(dec("80").Mul(dec("0.0525"))) {
		t.Errorf("Expected dividend per share 4.2, got %s", row.DividendPerShare.Decimal)
	}
	if !row.TotalDividend.Decimal.Equal(dec("240").Mul(dec("0.0525"))) {
		t.Errorf("Expected total dividend 12.6, got %s", row.TotalDividend.Decimal)
	}
	if !row.TotalAvgDividendYield.Decimal.Equal(dec("5.25")) {
		t.Errorf("Expected avg yield 5.25, got %s", row.TotalAvgDividendYield.Decimal)
	}
}

func TestAggregateMalformedPercentage(t *testing.T) {
	table := Aggregate(
		[]types.SymbolRequest{req("BAD", "10", "10"), req("OK", "10", "10")},
		[]types.ScrapeResult{
			{Metrics: types.ScrapedMetrics{DividendYield: ptr("--"), ROE: ptr("12")}},
			{Metrics: types.ScrapedMetrics{DividendYield: ptr("4")}},
		},
	)

	bad := table.Rows[0]
	if bad.DividendPerShare.Valid || bad.TotalDividend.Valid {
		t.Error("Expected dividend fields absent for malformed yield")
	}
	if bad.Metrics.ROE == nil || *bad.Metrics.ROE != "12" {
		t.Error("Expected other scraped fields to survive")
	}
	if len(bad.Errors) != 1 {
		t.Errorf("Expected one error, got %v", bad.Errors)
	}

	// 4 / 200 * 100
	if !table.Summary.TotalAvgDividendYield.Decimal.Equal(dec("2")) {
		t.Errorf("Expected avg yield 2, got %v", table.Summary.TotalAvgDividendYield)
	}
}

func TestAggregateZeroTotalValue(t *testing.T) {
	table := Aggregate(
		[]types.SymbolRequest{req("A", "0", "10"), req("B", "10", "0")},
		[]types.ScrapeResult{
			{Metrics: types.ScrapedMetrics{DividendYield: ptr("3")}},
			{},
		},
	)

	if table.Summary.TotalAvgDividendYield.Valid {
		t.Error("Expected absent summary when total value is zero")
	}
	if table.Rows[0].TotalAvgDividendYield.Valid {
		t.Error("Expected absent summary on row 0")
	}
	if !table.Rows[0].TotalDividend.Valid || !table.Rows[0].TotalDividend.Decimal.IsZero() {
		t.Errorf("Expected zero total dividend, got %v", table.Rows[0].TotalDividend)
	}
}

func TestAggregateNoDividendData(t *testing.T) {
	table := Aggregate(
		[]types.SymbolRequest{req("A", "10", "10")},
		[]types.ScrapeResult{{Metrics: types.ScrapedMetrics{ROCE: ptr("10")}}},
	)
	if !table.Summary.TotalAvgDividendYield.Valid || !table.Summary.TotalAvgDividendYield.Decimal.IsZero() {
		t.Errorf("Expected 0 avg yield when no row pays dividends, got %v", table.Summary.TotalAvgDividendYield)
	}
}

func TestAggregateShortResultsDegradeRows(t *testing.T) {
	table := Aggregate([]types.SymbolRequest{req("A", "1", "1"), req("B", "2", "2")}, nil)
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[1].Request.Symbol != "B" || !table.Rows[1].TotalValue.Equal(dec("4")) {
		t.Errorf("Unexpected row %+v", table.Rows[1])
	}
}

func TestAggregateEmpty(t *testing.T) {
	table := Aggregate(nil, nil)
	if len(table.Rows) != 0 || table.Summary.TotalAvgDividendYield.Valid {
		t.Errorf("Expected empty table with absent summary, got %+v", table)
	}
}
