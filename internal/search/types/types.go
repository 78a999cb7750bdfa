package types

import "github.com/alex-user-go/tripcompare/internal/reconcile"

// Result represents one reconciled search. The provider counters carry
// real JSON tags because results round-trip through the cache as JSON.
type Result struct {
	Groups             []reconcile.Group `json:"groups"`
	ProvidersTotal     int               `json:"providers_total"`
	ProvidersSucceeded int               `json:"providers_succeeded"`
	ProvidersFailed    int               `json:"providers_failed"`
}
