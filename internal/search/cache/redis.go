package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alex-user-go/tripcompare/internal/search/types"
)

// Redis is a Store backed by a shared Redis instance, for deployments
// where several service replicas should share one result cache. Unlike
// Memory it does not collapse concurrent fetches; with a short TTL the
// occasional duplicate fan-out is acceptable.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store.
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// GetOrFetch retrieves the key from Redis or executes the fetch function.
// Redis errors degrade to a cache miss so a flaky cache never blocks a
// search.
func (r *Redis) GetOrFetch(ctx context.Context, key string, fetch func() (*types.Result, error)) (*types.Result, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var result types.Result
		if jsonErr := json.Unmarshal(data, &result); jsonErr == nil {
			return &result, true, nil
		}
		// Corrupt entry: drop it and refetch.
		r.client.Del(ctx, key)
	}

	result, err := fetch()
	if err != nil || result == nil {
		return result, false, err
	}

	if data, jsonErr := json.Marshal(result); jsonErr == nil {
		r.client.Set(ctx, key, data, r.ttl)
	}

	return result, false, nil
}

// Invalidate removes a specific key from the cache.
func (r *Redis) Invalidate(key string) {
	r.client.Del(context.Background(), key)
}

// Close releases the Redis connection.
func (r *Redis) Close() {
	_ = r.client.Close()
}
