package cache

import (
	"context"
	"fmt"
	"time"

	"dividend-screener/internal/interfaces"
	"dividend-screener/internal/logger"
	"dividend-screener/internal/store"
)

// Fetcher serves company pages from a PageCache and only goes to the
// network on a miss. Failed fetches are never cached.
type Fetcher struct {
	inner interfaces.PageFetcher
	cache interfaces.PageCache
	ttl   time.Duration
}

var _ interfaces.PageFetcher = (*Fetcher)(nil)

func NewFetcher(inner interfaces.PageFetcher, cache interfaces.PageCache, ttl time.Duration) *Fetcher {
	return &Fetcher{inner: inner, cache: cache, ttl: ttl}
}

// PageKey is the cache key of a symbol's company page
func PageKey(symbol string) string {
	return "page:" + symbol
}

func (f *Fetcher) FetchPage(ctx context.Context, symbol string) ([]byte, error) {
	key := PageKey(symbol)
	if data, ok := f.cache.Get(ctx, key); ok {
		logger.Debug(ctx, "Returning cached company page", "symbol", symbol, "bytes", len(data))
		return data, nil
	}

	data, err := f.inner.FetchPage(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		logger.Warn(ctx, "Failed to cache company page", "symbol", symbol, "error", err)
	}
	return data, nil
}

// New creates the page cache selected by configuration; NONE returns nil
func New(ctx context.Context, cfg *store.Config) (interfaces.PageCache, error) {
	switch cfg.Cache.Backend {
	case "", "NONE":
		return nil, nil
	case "MEMORY":
		return NewMemoryStore(cfg.CacheTTL()), nil
	case "FILE":
		fs, err := NewFileStore(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "REDIS":
		rs := NewRedisStore(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Cache.RedisAddr, err)
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (valid options: NONE, MEMORY, FILE, REDIS)", cfg.Cache.Backend)
	}
}

// Wrap puts a cache in front of fetcher when one is configured
func Wrap(fetcher interfaces.PageFetcher, pc interfaces.PageCache, ttl time.Duration) interfaces.PageFetcher {
	if pc == nil {
		return fetcher
	}
	return NewFetcher(fetcher, pc, ttl)
}
