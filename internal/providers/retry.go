package providers

import (
	"context"
	"time"

	"github.com/alex-user-go/tripcompare/internal/reconcile"
)

// RetryProvider wraps a Provider with a bounded fixed-delay retry. The
// delay carries no jitter or backoff: it was tuned against the observed
// flakiness of the partner endpoints.
type RetryProvider struct {
	inner    Provider
	attempts int // extra attempts after the first call
	delay    time.Duration
}

// WithRetry wraps inner so failed searches are retried up to attempts more
// times, waiting delay between calls.
func WithRetry(inner Provider, attempts int, delay time.Duration) *RetryProvider {
	return &RetryProvider{inner: inner, attempts: attempts, delay: delay}
}

// ID returns the wrapped provider's identifier.
func (p *RetryProvider) ID() string {
	return p.inner.ID()
}

// Search calls the wrapped provider, retrying on error. The last error is
// returned when every attempt fails.
func (p *RetryProvider) Search(ctx context.Context, q Query) ([]reconcile.RawRecord, error) {
	records, err := p.inner.Search(ctx, q)
	for attempt := 0; attempt < p.attempts && err != nil; attempt++ {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
		records, err = p.inner.Search(ctx, q)
	}
	return records, err
}
