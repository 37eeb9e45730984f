package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"dividend-screener/internal/interfaces"
)

// MemoryStore keeps page bodies in process memory
type MemoryStore struct {
	items *gocache.Cache
}

var _ interfaces.PageCache = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose entries expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: gocache.New(ttl, 2*ttl),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

func (m *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.items.Set(key, data, ttl)
	return nil
}

// Flush removes every entry
func (m *MemoryStore) Flush() {
	m.items.Flush()
}
