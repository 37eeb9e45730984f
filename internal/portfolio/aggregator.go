package portfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"dividend-screener/internal/types"
)

var hundred = decimal.NewFromInt(100)

// ParsePercentage turns a displayed percentage such as "5.25%" or "0.35"
// into a fraction (0.0525, 0.0035).
func ParsePercentage(s string) (decimal.Decimal, error) {
	text := strings.TrimSpace(s)
	text = strings.TrimSpace(strings.TrimSuffix(text, "%"))

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", types.ErrMalformedPercentage, s)
	}
	return d.Div(hundred), nil
}

// Aggregate joins requests with their scrape results by index and computes
// the per-row and portfolio figures. It never fails: a missing or failed
// result degrades its own row only.
func Aggregate(reqs []types.SymbolRequest, results []types.ScrapeResult) *types.Table {
	table := &types.Table{Rows: make([]types.RowResult, len(reqs))}

	totalValue := decimal.Zero
	totalDividend := decimal.Zero

	for i, req := range reqs {
		row := types.RowResult{Request: req}

		if i < len(results) {
			row.Metrics = results[i].Metrics
			if results[i].Err != nil {
				row.Errors = append(row.Errors, results[i].Err.Error())
			}
		}

		row.TotalValue = req.BuyingPrice.Mul(req.Quantity)

		if row.Metrics.DividendYield != nil {
			fraction, err := ParsePercentage(*row.Metrics.DividendYield)
			if err != nil {
				row.Errors = append(row.Errors, err.Error())
			} else {
				row.DividendPerShare = decimal.NewNullDecimal(req.BuyingPrice.Mul(fraction))
				row.TotalDividend = decimal.NewNullDecimal(row.TotalValue.Mul(fraction))
			}
		}

		totalValue = totalValue.Add(row.TotalValue)
		if row.TotalDividend.Valid {
			totalDividend = totalDividend.Add(row.TotalDividend.Decimal)
		}

		table.Rows[i] = row
	}

	table.Summary = types.PortfolioSummary{
		TotalValue:    totalValue,
		TotalDividend: totalDividend,
	}
	if !totalValue.IsZero() {
		table.Summary.TotalAvgDividendYield = decimal.NewNullDecimal(totalDividend.Div(totalValue).Mul(hundred))
	}
	if len(table.Rows) > 0 {
		table.Rows[0].TotalAvgDividendYield = table.Summary.TotalAvgDividendYield
	}

	return table
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
