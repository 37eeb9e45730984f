package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dividend-screener/internal/interfaces"
)

// FileStore keeps page bodies as JSON files on disk, one per key
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

var _ interfaces.PageCache = (*FileStore)(nil)

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewFileStore creates the cache directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "cache/screener"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, bool) {
	f.mu.RLock()
	raw, err := os.ReadFile(f.path(key))
	f.mu.RUnlock()
	if err != nil {
		return nil, false
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Key != key {
		return nil, false
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		f.mu.Lock()
		os.Remove(f.path(key))
		f.mu.Unlock()
		return nil, false
	}

	return entry.Data, true
}

func (f *FileStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return os.WriteFile(f.path(key), raw, 0o644)
}

// CleanupExpired removes expired entries from the directory
func (f *FileStore) CleanupExpired() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		p := filepath.Join(f.dir, de.Name())
		raw, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var entry fileEntry
		if json.Unmarshal(raw, &entry) != nil {
			continue
		}
		if !entry.ExpiresAt.IsZero() && now.After(entry.ExpiresAt) {
			os.Remove(p)
		}
	}
	return nil
}

func (f *FileStore) path(key string) string {
	hash := md5.Sum([]byte(key))
	return filepath.Join(f.dir, fmt.Sprintf("%x.json", hash))
}
