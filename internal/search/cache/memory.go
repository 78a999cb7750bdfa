package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alex-user-go/tripcompare/internal/search/types"
)

// Memory is an in-memory Store with TTL and request collapsing
// (singleflight): concurrent fetches for the same key share one upstream
// fan-out.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string]*memoryEntry
	ttl      time.Duration
	inflight map[string]*inflightRequest
	done     chan struct{}
}

type memoryEntry struct {
	result    *types.Result
	expiresAt time.Time
}

type inflightRequest struct {
	done   chan struct{}
	result *types.Result
	err    error
}

// NewMemory creates a new in-memory store with the specified TTL.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		entries:  make(map[string]*memoryEntry),
		ttl:      ttl,
		inflight: make(map[string]*inflightRequest),
		done:     make(chan struct{}),
	}

	// Start background cleanup
	go m.cleanup()

	return m
}

// Close stops the background cleanup goroutine.
func (m *Memory) Close() {
	close(m.done)
}

// GetOrFetch retrieves from cache or executes the fetch function.
// Concurrent requests for the same key are collapsed (singleflight
// pattern). Returns the result and a boolean indicating if it was a
// cache hit.
func (m *Memory) GetOrFetch(ctx context.Context, key string, fetch func() (*types.Result, error)) (*types.Result, bool, error) {
	m.mu.Lock()

	// Check cache
	if entry, ok := m.entries[key]; ok && time.Now().Before(entry.expiresAt) {
		m.mu.Unlock()
		return entry.result, true, nil
	}

	// Check for existing in-flight request
	if inflight, ok := m.inflight[key]; ok {
		m.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.result, false, inflight.err
		case <-ctx.Done():
			return nil, false, context.Cause(ctx)
		}
	}

	// Create new in-flight request
	inflight := &inflightRequest{
		done: make(chan struct{}),
	}
	m.inflight[key] = inflight
	m.mu.Unlock()

	// Execute fetch (outside of lock)
	result, err := fetch()

	// Store result
	m.mu.Lock()
	inflight.result = result
	inflight.err = err
	if err == nil && result != nil {
		m.entries[key] = &memoryEntry{
			result:    result,
			expiresAt: time.Now().Add(m.ttl),
		}
	}
	delete(m.inflight, key)
	m.mu.Unlock()

	// Notify all waiters
	close(inflight.done)

	return result, false, err
}

// Invalidate removes a specific key from the cache.
func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// cleanup periodically removes expired entries.
func (m *Memory) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, entry := range m.entries {
				if now.After(entry.expiresAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}
