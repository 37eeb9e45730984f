package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"dividend-screener/internal/httpapi"
	"dividend-screener/internal/logger"
	"dividend-screener/internal/store"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	config string
	addr   string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the portfolio analysis HTTP API" }
func (*serveCmd) Usage() string {
	return `screener serve [-config config.yaml] [-addr :8080]

  Serves POST /v1/portfolio/analyze, GET /v1/ratios/{symbol} and GET /healthz.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "config.yaml", "path to config file")
	f.StringVar(&c.addr, "addr", "", "listen address (defaults to server.addr)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := bootstrap(ctx, c.config, func(cfg *store.Config) {
		if c.addr != "" {
			cfg.Server.Addr = c.addr
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.Close(context.Background())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           httpapi.NewServer(a.analyzer, httpapi.WithRunLog(a.runs)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP API listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "HTTP API stopped", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down HTTP API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithErr(shutdownCtx, "Graceful shutdown failed", err)
			return subcommands.ExitFailure
		}
	}

	logger.Info(context.Background(), "HTTP API stopped")
	return subcommands.ExitSuccess
}
