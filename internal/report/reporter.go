package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"dividend-screener/internal/types"
)

// Format specifies the output format of a merged table
type Format string

const (
	FormatCSV      Format = "CSV"
	FormatJSON     Format = "JSON"
	FormatMarkdown Format = "MARKDOWN"
)

// ParseFormat accepts csv, json, markdown (or md) in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CSV":
		return FormatCSV, nil
	case "JSON":
		return FormatJSON, nil
	case "MARKDOWN", "MD":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Extension is the file extension used when saving
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	default:
		return "csv"
	}
}

// ComputedColumns follow the input columns in every rendering
var ComputedColumns = []string{
	"ROCE",
	"ROE",
	"P/E",
	"Dividend Yield",
	"Total Value",
	"Dividend Per Share",
	"Total Dividend",
	"Total Avg Dividend Yield",
}

var defaultInputColumns = []string{"Symbol", "Buying Price", "Quantity"}

// Reporter renders and stores merged tables
type Reporter struct {
	outputDir string
}

func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// Write renders table to w
func (r *Reporter) Write(w io.Writer, table *types.Table, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, table)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	case FormatMarkdown:
		_, err := io.WriteString(w, markdown(table))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Generate renders table to a string
func (r *Reporter) Generate(table *types.Table, format Format) (string, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, table, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Save writes the table to the output directory and returns the file path
func (r *Reporter) Save(table *types.Table, format Format) (string, error) {
	content, err := r.Generate(table, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", err
	}

	timestamp := table.GeneratedAt.Format("2006-01-02_15-04-05")
	path := filepath.Join(r.outputDir, fmt.Sprintf("merged_data_%s.%s", timestamp, format.Extension()))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Header returns the column names of table
func Header(table *types.Table) []string {
	input := defaultInputColumns
	if usesSheet(table) {
		input = table.Input.Header
	}
	header := make([]string, 0, len(input)+len(ComputedColumns))
	header = append(header, input...)
	return append(header, ComputedColumns...)
}

// Records returns one string slice per row, aligned with Header
func Records(table *types.Table) [][]string {
	sheet := usesSheet(table)
	width := len(Header(table))

	records := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		rec := make([]string, 0, width)
		if sheet {
			input := table.Input.Records[i]
			for j := range table.Input.Header {
				if j < len(input) {
					rec = append(rec, input[j])
				} else {
					rec = append(rec, "")
				}
			}
		} else {
			rec = append(rec,
				row.Request.Symbol,
				row.Request.BuyingPrice.String(),
				row.Request.Quantity.String(),
			)
		}

		rec = append(rec,
			optString(row.Metrics.ROCE),
			optString(row.Metrics.ROE),
			optString(row.Metrics.PE),
			optString(row.Metrics.DividendYield),
			row.TotalValue.String(),
			optDecimal(row.DividendPerShare),
			optDecimal(row.TotalDividend),
			optDecimal(row.TotalAvgDividendYield),
		)
		records[i] = rec
	}
	return records
}

func usesSheet(table *types.Table) bool {
	return table.Input != nil && len(table.Input.Header) > 0 && len(table.Input.Records) == len(table.Rows)
}

func writeCSV(w io.Writer, table *types.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(table)); err != nil {
		return err
	}
	if err := cw.WriteAll(Records(table)); err != nil {
		return err
	}
	return cw.Error()
}

func markdown(table *types.Table) string {
	var sb strings.Builder

	sb.WriteString("# Portfolio Ratios\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", table.GeneratedAt.Format("2006-01-02 15:04:05")))

	header := Header(table)
	sb.WriteString("| " + strings.Join(escapeCells(header), " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, rec := range Records(table) {
		sb.WriteString("| " + strings.Join(escapeCells(rec), " | ") + " |\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Total Value:** %s  \n", table.Summary.TotalValue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("**Total Dividend:** %s  \n", table.Summary.TotalDividend.StringFixed(2)))
	if table.Summary.TotalAvgDividendYield.Valid {
		sb.WriteString(fmt.Sprintf("**Total Avg Dividend Yield:** %s%%\n", table.Summary.TotalAvgDividendYield.Decimal.StringFixed(2)))
	} else {
		sb.WriteString("**Total Avg Dividend Yield:** n/a\n")
	}
	return sb.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.Join(strings.Fields(c), " ")
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
