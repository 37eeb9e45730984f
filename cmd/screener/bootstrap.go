package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"dividend-screener/internal/cache"
	"dividend-screener/internal/interfaces"
	"dividend-screener/internal/logger"
	"dividend-screener/internal/portfolio"
	"dividend-screener/internal/runlog"
	"dividend-screener/internal/screener"
	"dividend-screener/internal/screener/screenerobs"
	"dividend-screener/internal/store"
	"dividend-screener/internal/trace"
)

// app holds everything a command needs once the system is up
type app struct {
	cfg      *store.Config
	analyzer *portfolio.Analyzer
	runs     *runlog.Log
	closers  []io.Closer
}

func (a *app) Close(ctx context.Context) {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logger.Warn(ctx, "Failed to close resource", "error", err)
		}
	}
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown tracer: %v\n", err)
	}
}

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeFetcher builds backend, rate limit, observability and cache,
// innermost first. The cache sits outside the rate limit so hits are free.
func initializeFetcher(ctx context.Context, cfg *store.Config) (interfaces.PageFetcher, []io.Closer, error) {
	base, err := screener.NewFetcher(cfg)
	if err != nil {
		return nil, nil, err
	}
	fetcher := screenerobs.Wrap(base)

	pc, err := cache.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var closers []io.Closer
	switch c := pc.(type) {
	case *cache.FileStore:
		if err := c.CleanupExpired(); err != nil {
			logger.Warn(ctx, "Failed to clean expired cache entries", "dir", cfg.Cache.Dir, "error", err)
		}
	case *cache.RedisStore:
		closers = append(closers, c)
	}

	if pc != nil {
		logger.Info(ctx, "Company page cache enabled", "backend", cfg.Cache.Backend, "ttl", cfg.CacheTTL().String())
	}

	return cache.Wrap(fetcher, pc, cfg.CacheTTL()), closers, nil
}

func initializeAnalyzer(cfg *store.Config, fetcher interfaces.PageFetcher) *portfolio.Analyzer {
	return portfolio.NewAnalyzer(fetcher, screener.NewExtractor(),
		portfolio.WithStrategy(portfolio.StrategyFor(cfg.Pipeline.Mode, cfg.Pipeline.Workers)),
		portfolio.WithRequestTimeout(cfg.RequestTimeout()),
	)
}

// initializeRunLog opens the run history and compresses old days
func initializeRunLog(ctx context.Context, cfg *store.Config) *runlog.Log {
	runs := runlog.New(cfg.Report.RunLogDir)
	if err := runs.CompressOlder(cfg.Report.RunLogRetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old run logs", "dir", cfg.Report.RunLogDir, "error", err)
	}
	return runs
}

// bootstrap brings the whole pipeline up from a config file. override may
// adjust the loaded config before anything is built from it.
func bootstrap(ctx context.Context, configPath string, override func(*store.Config)) (*app, error) {
	if err := initializeSystem(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	fetcher, closers, err := initializeFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Screener pipeline ready",
		"backend", cfg.Screener.Backend,
		"base_url", cfg.Screener.BaseURL,
		"mode", cfg.Pipeline.Mode,
		"workers", cfg.Pipeline.Workers,
	)

	return &app{
		cfg:      cfg,
		analyzer: initializeAnalyzer(cfg, fetcher),
		runs:     initializeRunLog(ctx, cfg),
		closers:  closers,
	}, nil
}
