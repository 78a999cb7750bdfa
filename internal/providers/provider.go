package providers

import (
	"context"
	"errors"

	"github.com/alex-user-go/tripcompare/internal/reconcile"
)

// Query carries one user search. Hotel and flight searches share the
// struct; fields that do not apply stay empty and are omitted on the wire.
type Query struct {
	City        string `json:"city,omitempty"`
	Checkin     string `json:"checkin,omitempty"`
	Nights      int    `json:"nights,omitempty"`
	Adults      int    `json:"adults,omitempty"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Date        string `json:"date,omitempty"`
}

// Provider defines the interface for search providers.
type Provider interface {
	// ID identifies the provider in reconciled output.
	ID() string
	// Search runs one provider query and returns its raw result rows.
	Search(ctx context.Context, q Query) ([]reconcile.RawRecord, error)
}

// ErrProviderUnavailable is returned when a provider is unavailable.
var ErrProviderUnavailable = errors.New("provider unavailable")
