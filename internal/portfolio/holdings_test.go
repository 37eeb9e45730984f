package portfolio

import (
	"strings"
	"testing"
)

func TestReadHoldings(t *testing.T) {
	sheet := "Symbol,Buying Price,Quantity,Sector\n" +
		" TCS ,3500.50,4,IT\n" +
		"\n" +
		"ITC,410,100,FMCG\n"

	h, err := ReadHoldings(strings.NewReader(sheet), DefaultColumns())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(h.Requests) != 2 {
		t.Fatalf("Expected 2 holdings, got %d", len(h.Requests))
	}
	if h.Requests[0].Symbol != "TCS" {
		t.Errorf("Expected trimmed symbol TCS, got %q", h.Requests[0].Symbol)
	}
	if !h.Requests[0].BuyingPrice.Equal(dec("3500.50")) || !h.Requests[0].Quantity.Equal(dec("4")) {
		t.Errorf("Unexpected values %+v", h.Requests[0])
	}
	if len(h.Sheet.Header) != 4 || h.Sheet.Header[3] != "Sector" {
		t.Errorf("Expected header pass-through, got %v", h.Sheet.Header)
	}
	if len(h.Sheet.Records) != 2 || h.Sheet.Records[1][3] != "FMCG" {
		t.Errorf("Expected records pass-through, got %v", h.Sheet.Records)
	}
}

func TestReadHoldingsCustomColumns(t *testing.T) {
	sheet := "ticker,cost,shares\nHDFCBANK,1500,2\n"

	h, err := ReadHoldings(strings.NewReader(sheet), Columns{Symbol: "Ticker", Price: "Cost", Quantity: "Shares"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if h.Requests[0].Symbol != "HDFCBANK" {
		t.Errorf("Expected HDFCBANK, got %s", h.Requests[0].Symbol)
	}
}

func TestReadHoldingsErrors(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
	}{
		{"empty", ""},
		{"missing column", "Symbol,Quantity\nTCS,1\n"},
		{"bad price", "Symbol,Buying Price,Quantity\nTCS,abc,1\n"},
		{"bad quantity", "Symbol,Buying Price,Quantity\nTCS,1,\n"},
		{"empty symbol", "Symbol,Buying Price,Quantity\n ,1,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadHoldings(strings.NewReader(tt.sheet), DefaultColumns()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
