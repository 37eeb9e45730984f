package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"dividend-screener/internal/interfaces"
)

// RedisStore keeps page bodies in Redis so several processes share them
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ interfaces.PageCache = (*RedisStore)(nil)

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: "dividend-screener:",
	}
}

// Ping checks connectivity
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
