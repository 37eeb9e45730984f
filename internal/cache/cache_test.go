package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"dividend-screener/internal/store"
)

type stubFetcher struct {
	calls int
	err   error
}

func (s *stubFetcher) FetchPage(ctx context.Context, symbol string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("<html>" + symbol + "</html>"), nil
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(time.Minute)

	if _, ok := ms.Get(ctx, "missing"); ok {
		t.Fatal("Expected miss for unknown key")
	}

	if err := ms.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	data, ok := ms.Get(ctx, "k")
	if !ok || string(data) != "v" {
		t.Errorf("Expected cached v, got %q (found=%v)", data, ok)
	}

	ms.Set(ctx, "short", []byte("x"), 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	if _, ok := ms.Get(ctx, "short"); ok {
		t.Error("Expected entry to be expired")
	}

	ms.Flush()
	if _, ok := ms.Get(ctx, "k"); ok {
		t.Error("Expected flush to empty the store")
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := fs.Set(ctx, "page:TCS", []byte("body"), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	data, ok := fs.Get(ctx, "page:TCS")
	if !ok || string(data) != "body" {
		t.Errorf("Expected cached body, got %q (found=%v)", data, ok)
	}

	fs.Set(ctx, "page:OLD", []byte("stale"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if _, ok := fs.Get(ctx, "page:OLD"); ok {
		t.Error("Expected expired file entry to miss")
	}

	fs.Set(ctx, "page:GONE", []byte("stale"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if err := fs.CleanupExpired(); err != nil {
		t.Fatalf("Expected no cleanup error, got %v", err)
	}
	if _, ok := fs.Get(ctx, "page:TCS"); !ok {
		t.Error("Expected live entry to survive cleanup")
	}
}

func TestFetcherCachesSuccessOnly(t *testing.T) {
	ctx := context.Background()
	inner := &stubFetcher{}
	f := NewFetcher(inner, NewMemoryStore(time.Minute), time.Minute)

	for i := 0; i < 3; i++ {
		body, err := f.FetchPage(ctx, "INFY")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if string(body) != "<html>INFY</html>" {
			t.Errorf("Unexpected body %q", body)
		}
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 network call, got %d", inner.calls)
	}

	failing := &stubFetcher{err: errors.New("boom")}
	f = NewFetcher(failing, NewMemoryStore(time.Minute), time.Minute)
	f.FetchPage(ctx, "BAD")
	f.FetchPage(ctx, "BAD")
	if failing.calls != 2 {
		t.Errorf("Expected failures not to be cached, got %d calls", failing.calls)
	}
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := store.Default()

	pc, err := New(ctx, cfg)
	if err != nil || pc != nil {
		t.Errorf("Expected nil cache for NONE, got %v, %v", pc, err)
	}

	cfg.Cache.Backend = "MEMORY"
	pc, err = New(ctx, cfg)
	if _, ok := pc.(*MemoryStore); !ok || err != nil {
		t.Errorf("Expected MemoryStore, got %T, %v", pc, err)
	}

	cfg.Cache.Backend = "FILE"
	cfg.Cache.Dir = t.TempDir()
	pc, err = New(ctx, cfg)
	if _, ok := pc.(*FileStore); !ok || err != nil {
		t.Errorf("Expected FileStore, got %T, %v", pc, err)
	}

	inner := &stubFetcher{}
	if Wrap(inner, nil, time.Minute) != inner {
		t.Error("Expected Wrap without cache to return the fetcher unchanged")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	cfg := store.Default()
	cfg.Cache.Backend = "REDIS"
	cfg.Cache.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pc, err := New(ctx, cfg)
	if err == nil {
		t.Fatal("Expected error for unreachable redis")
	}
	if pc != nil {
		t.Errorf("Expected nil cache, got %T", pc)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := store.Default()
	cfg.Cache.Backend = "MEMCACHED"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
