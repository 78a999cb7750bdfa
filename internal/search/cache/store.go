// Package cache provides short-TTL caching of reconciled search results,
// either in process memory or in Redis.
package cache

import (
	"context"
	"strings"

	"github.com/alex-user-go/tripcompare/internal/search/types"
)

// Store caches reconciled search results for a short TTL.
type Store interface {
	// GetOrFetch retrieves from cache or executes the fetch function.
	// Returns the result and a boolean indicating if it was a cache hit.
	GetOrFetch(ctx context.Context, key string, fetch func() (*types.Result, error)) (*types.Result, bool, error)
	// Invalidate removes a specific key.
	Invalidate(key string)
	// Close releases the store's resources.
	Close()
}

// Key builds a cache key from query parts.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
