package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"dividend-screener/internal/types"
)

// Columns names the input columns that hold the symbol, buying price and quantity
type Columns struct {
	Symbol   string
	Price    string
	Quantity string
}

// DefaultColumns matches the header of the sample holdings sheet
func DefaultColumns() Columns {
	return Columns{Symbol: "Symbol", Price: "Buying Price", Quantity: "Quantity"}
}

// Holdings is a parsed portfolio sheet. Sheet keeps every input column so
// the merged output can reproduce it.
type Holdings struct {
	Sheet    *types.InputSheet
	Requests []types.SymbolRequest
}

// ReadHoldings parses a CSV sheet with a header row. Symbols are trimmed;
// prices and quantities must be plain decimals.
func ReadHoldings(r io.Reader, cols Columns) (*Holdings, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("holdings sheet is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	symbolIdx, err := columnIndex(header, cols.Symbol)
	if err != nil {
		return nil, err
	}
	priceIdx, err := columnIndex(header, cols.Price)
	if err != nil {
		return nil, err
	}
	qtyIdx, err := columnIndex(header, cols.Quantity)
	if err != nil {
		return nil, err
	}

	h := &Holdings{Sheet: &types.InputSheet{Header: header}}
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		req, err := parseRecord(record, symbolIdx, priceIdx, qtyIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		h.Sheet.Records = append(h.Sheet.Records, record)
		h.Requests = append(h.Requests, req)
	}

	return h, nil
}

func parseRecord(record []string, symbolIdx, priceIdx, qtyIdx int) (types.SymbolRequest, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	req := types.SymbolRequest{Symbol: field(symbolIdx)}
	if req.Symbol == "" {
		return req, errors.New("symbol is empty")
	}

	price, err := decimal.NewFromString(field(priceIdx))
	if err != nil {
		return req, fmt.Errorf("buying price %q: %w", field(priceIdx), err)
	}
	qty, err := decimal.NewFromString(field(qtyIdx))
	if err != nil {
		return req, fmt.Errorf("quantity %q: %w", field(qtyIdx), err)
	}

	req.BuyingPrice = price
	req.Quantity = qty
	return req, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q not found in header %v", name, header)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
