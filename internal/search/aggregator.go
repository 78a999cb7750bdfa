// Package search fans one user query out to every configured provider and
// reconciles the answers into comparison groups.
package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alex-user-go/tripcompare/internal/obs"
	"github.com/alex-user-go/tripcompare/internal/providers"
	"github.com/alex-user-go/tripcompare/internal/reconcile"
	"github.com/alex-user-go/tripcompare/internal/search/types"
)

// Aggregator queries a set of providers concurrently and reconciles their
// raw results. One Aggregator serves one vertical (hotels or flights); the
// normalizer decides how rows are keyed and grouped.
type Aggregator struct {
	providers []providers.Provider
	normalize reconcile.Normalizer
	timeout   time.Duration
	metrics   *obs.Metrics
	logger    *slog.Logger
}

// NewAggregator creates a new Aggregator.
func NewAggregator(
	providerList []providers.Provider,
	normalize reconcile.Normalizer,
	timeout time.Duration,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		providers: providerList,
		normalize: normalize,
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
	}
}

// Search queries all providers concurrently and reconciles the results.
// A failed provider contributes an empty record list so the others still
// produce partial results; only all providers failing is an error.
func (a *Aggregator) Search(ctx context.Context, q providers.Query) (*types.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// One slot per provider keeps reconciliation input in roster order
	// regardless of which call finishes first.
	results := make([]reconcile.ProviderResult, len(a.providers))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		succeeded int
		failed    int
		errs      []error
	)

	for i, provider := range a.providers {
		i, provider := i, provider
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := provider.Search(ctx, q)
			if err != nil {
				mu.Lock()
				failed++
				errs = append(errs, err)
				mu.Unlock()
				a.metrics.IncProviderErrors()
				results[i] = reconcile.ProviderResult{ProviderID: provider.ID()}
				return
			}

			mu.Lock()
			succeeded++
			mu.Unlock()
			results[i] = reconcile.ProviderResult{ProviderID: provider.ID(), Records: records}
		}()
	}

	// Wait for all providers to settle
	wg.Wait()

	if len(errs) > 0 {
		a.logger.Error("provider search errors",
			"failed_count", failed,
			"errors", errs)

		// If all providers failed, return error
		if failed == len(a.providers) {
			return nil, errs[0]
		}
	}

	return &types.Result{
		Groups:             reconcile.Reconcile(results, a.normalize),
		ProvidersTotal:     len(a.providers),
		ProvidersSucceeded: succeeded,
		ProvidersFailed:    failed,
	}, nil
}
