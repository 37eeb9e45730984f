package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"dividend-screener/internal/types"
)

type ratiosCmd struct {
	config string
}

func (*ratiosCmd) Name() string     { return "ratios" }
func (*ratiosCmd) Synopsis() string { return "print the scraped ratios of one or more symbols" }
func (*ratiosCmd) Usage() string {
	return `screener ratios [-config config.yaml] SYMBOL...

  Prints one JSON line per symbol with ROCE, ROE, P/E and Dividend Yield.
`
}

func (c *ratiosCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "config.yaml", "path to config file")
}

type ratiosLine struct {
	Symbol  string               `json:"symbol"`
	Metrics types.ScrapedMetrics `json:"metrics"`
	Error   string               `json:"error,omitempty"`
	Kind    string               `json:"kind,omitempty"`
}

func (c *ratiosCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		f.Usage()
		return subcommands.ExitUsageError
	}

	a, err := bootstrap(ctx, c.config, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.Close(ctx)

	status := subcommands.ExitSuccess
	for _, symbol := range f.Args() {
		res := a.analyzer.Scrape(ctx, symbol)
		line := ratiosLine{Symbol: res.Symbol, Metrics: res.Metrics}
		if res.Err != nil {
			line.Error = res.Err.Error()
			line.Kind = types.FailureKind(res.Err)
			status = subcommands.ExitFailure
		}
		b, _ := json.Marshal(line)
		fmt.Println(string(b))
	}
	return status
}
