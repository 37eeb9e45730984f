package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"dividend-screener/internal/logger"
	"dividend-screener/internal/portfolio"
	"dividend-screener/internal/report"
	"dividend-screener/internal/runlog"
	"dividend-screener/internal/store"
	"dividend-screener/internal/types"
)

type analyzeCmd struct {
	config  string
	input   string
	format  string
	output  string
	save    bool
	pretty  bool
	mode    string
	workers int

	symbolCol   string
	priceCol    string
	quantityCol string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "scrape ratios for a holdings file and compute dividends" }
func (*analyzeCmd) Usage() string {
	return `screener analyze -input <holdings.csv> [-config config.yaml] [-format csv|json|markdown] [-output file] [-save] [-pretty] [-mode sequential|concurrent] [-workers n]

  Reads the holdings file, scrapes ROCE, ROE, P/E and Dividend Yield for every
  symbol and writes the merged table with per-row and portfolio dividends.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "config.yaml", "path to config file")
	f.StringVar(&c.input, "input", "", "holdings CSV file (required)")
	f.StringVar(&c.format, "format", "", "output format: csv, json or markdown (defaults to report.format)")
	f.StringVar(&c.output, "output", "", "write the table to this file instead of stdout")
	f.BoolVar(&c.save, "save", false, "also save the table as merged_data_<timestamp> in report.output_dir")
	f.BoolVar(&c.pretty, "pretty", false, "render the table as styled markdown in the terminal")
	f.StringVar(&c.mode, "mode", "", "pipeline mode: sequential or concurrent (defaults to pipeline.mode)")
	f.IntVar(&c.workers, "workers", -1, "concurrent fetches, 0 for one per symbol (defaults to pipeline.workers)")
	f.StringVar(&c.symbolCol, "symbol-col", "", "name of the symbol column (defaults to input.symbol_column)")
	f.StringVar(&c.priceCol, "price-col", "", "name of the buying price column (defaults to input.price_column)")
	f.StringVar(&c.quantityCol, "quantity-col", "", "name of the quantity column (defaults to input.quantity_column)")
}

func (c *analyzeCmd) override(cfg *store.Config) {
	if c.mode != "" {
		cfg.Pipeline.Mode = strings.ToUpper(c.mode)
	}
	if c.workers >= 0 {
		cfg.Pipeline.Workers = c.workers
	}
	if c.format != "" {
		cfg.Report.Format = strings.ToUpper(c.format)
	}
	if c.symbolCol != "" {
		cfg.Input.SymbolColumn = c.symbolCol
	}
	if c.priceCol != "" {
		cfg.Input.PriceColumn = c.priceCol
	}
	if c.quantityCol != "" {
		cfg.Input.QuantityColumn = c.quantityCol
	}
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		f.Usage()
		return subcommands.ExitUsageError
	}

	a, err := bootstrap(ctx, c.config, c.override)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.Close(ctx)

	format, err := report.ParseFormat(a.cfg.Report.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	holdings, err := readHoldingsFile(c.input, portfolio.Columns{
		Symbol:   a.cfg.Input.SymbolColumn,
		Price:    a.cfg.Input.PriceColumn,
		Quantity: a.cfg.Input.QuantityColumn,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	table := a.analyzer.Analyze(ctx, holdings.Requests)
	table.Input = holdings.Sheet

	reporter := report.NewReporter(a.cfg.Report.OutputDir)
	if err := c.writeTable(reporter, table, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	entry := runlog.EntryFor("cli", table)
	if c.save {
		op := logger.StartOperation(ctx, "report.Save", "format", string(format), "dir", a.cfg.Report.OutputDir)
		path, err := reporter.Save(table, format)
		if err != nil {
			op.EndWithError(err)
			fmt.Fprintf(os.Stderr, "Error saving report: %v\n", err)
			return subcommands.ExitFailure
		}
		op.End("path", path)
		entry.Report = path
		fmt.Fprintf(os.Stderr, "Report saved to %s\n", path)
	}
	if err := a.runs.Append(entry); err != nil {
		logger.Warn(ctx, "Failed to append run log", "error", err)
	}

	fmt.Fprintln(os.Stderr, summaryLine(table))
	return subcommands.ExitSuccess
}

func (c *analyzeCmd) writeTable(reporter *report.Reporter, table *types.Table, format report.Format) error {
	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	if c.pretty && c.output == "" {
		md, err := reporter.Generate(table, report.FormatMarkdown)
		if err != nil {
			return err
		}
		printMarkdown(md)
		return nil
	}

	return reporter.Write(w, table, format)
}

func readHoldingsFile(path string, cols portfolio.Columns) (*portfolio.Holdings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	holdings, err := portfolio.ReadHoldings(file, cols)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return holdings, nil
}

func summaryLine(table *types.Table) string {
	failed := 0
	for _, row := range table.Rows {
		if len(row.Errors) > 0 {
			failed++
		}
	}

	yield := "n/a"
	if table.Summary.TotalAvgDividendYield.Valid {
		yield = table.Summary.TotalAvgDividendYield.Decimal.StringFixed(2) + "%"
	}
	return fmt.Sprintf("Total Avg Dividend Yield: %s (total value %s, total dividend %s, %d/%d rows with errors)",
		yield,
		table.Summary.TotalValue.StringFixed(2),
		table.Summary.TotalDividend.StringFixed(2),
		failed, len(table.Rows),
	)
}

// printMarkdown renders md for the terminal, falling back to raw text
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
