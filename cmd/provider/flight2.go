package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Flight2 mimics a flight aggregator with different field names
// (carrier/dep_time/travel_time/from/to), pre-formatted 12-hour times and
// rupee price strings. Its IndiGo and Vistara offers mirror Flight1's so
// the reconciler can merge them.
type Flight2 struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// NewFlight2 creates the second flight mock.
func NewFlight2() *Flight2 {
	return &Flight2{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func (p *Flight2) search(ctx context.Context, q query) ([]map[string]any, error) {
	latency := time.Duration(90+p.rng.Intn(220)) * time.Millisecond

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}

	if p.rng.Float64() < 0.12 {
		return nil, errProviderUnavailable
	}

	return p.generateRecords(q), nil
}

func (p *Flight2) generateRecords(q query) []map[string]any {
	return []map[string]any{
		{
			"carrier":     "IndiGo",
			"flight_no":   "6E-204",
			"dep_time":    "9:50 pm",
			"arr_time":    "12:05 am",
			"travel_time": "2h 15m",
			"from":        q.Origin,
			"to":          q.Destination,
			"price_text":  inr(4600 + p.rng.Intn(400)),
		},
		{
			"carrier":     "Vistara",
			"flight_no":   "UK-997",
			"dep_time":    "6:10 am",
			"arr_time":    "8:35 am",
			"travel_time": "2h 25m",
			"from":        q.Origin,
			"to":          q.Destination,
			"price_text":  inr(5100 + p.rng.Intn(500)),
		},
		{
			"carrier":     "SpiceJet",
			"flight_no":   "SG-157",
			"dep_time":    "4:40 pm",
			"arr_time":    "6:55 pm",
			"travel_time": "2h 15m",
			"from":        q.Origin,
			"to":          q.Destination,
			"price_text":  inr(4300 + p.rng.Intn(600)),
		},
	}
}

// ServeHTTP handles HTTP requests for this provider.
func (p *Flight2) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var q query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if q.Origin == "" || q.Destination == "" || q.Date == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	records, err := p.search(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(searchResponse{Records: records}); err != nil {
		p.logger.Error("failed to encode response", "error", err)
	}
}
