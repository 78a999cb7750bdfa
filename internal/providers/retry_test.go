package providers_test

import (
	"context"
	"testing"
	"time"

	"github.com/alex-user-go/tripcompare/internal/providers"
	"github.com/alex-user-go/tripcompare/internal/reconcile"
)

// flakyProvider fails a fixed number of times before succeeding.
type flakyProvider struct {
	failures int
	calls    int
}

func (f *flakyProvider) ID() string { return "flaky" }

func (f *flakyProvider) Search(ctx context.Context, q providers.Query) ([]reconcile.RawRecord, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, providers.ErrProviderUnavailable
	}
	return []reconcile.RawRecord{{"name": "Recovered Inn"}}, nil
}

func TestRetryProvider_RecoversWithinBudget(t *testing.T) {
	inner := &flakyProvider{failures: 2}
	p := providers.WithRetry(inner, 2, time.Millisecond)

	records, err := p.Search(context.Background(), providers.Query{City: "mumbai"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls (1 + 2 retries), got %d", inner.calls)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestRetryProvider_ReturnsLastError(t *testing.T) {
	inner := &flakyProvider{failures: 10}
	p := providers.WithRetry(inner, 2, time.Millisecond)

	if _, err := p.Search(context.Background(), providers.Query{}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetryProvider_ContextCancelsDelay(t *testing.T) {
	inner := &flakyProvider{failures: 10}
	p := providers.WithRetry(inner, 2, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := p.Search(ctx, providers.Query{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Error("retry delay ignored context cancellation")
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", inner.calls)
	}
}
