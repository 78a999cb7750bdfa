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

// Flight1 mimics a flight aggregator returning 24-hour departure times
// and numeric prices.
type Flight1 struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// NewFlight1 creates the first flight mock.
func NewFlight1() *Flight1 {
	return &Flight1{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func (p *Flight1) search(ctx context.Context, q query) ([]map[string]any, error) {
	latency := time.Duration(60+p.rng.Intn(180)) * time.Millisecond

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}

	if p.rng.Float64() < 0.1 {
		return nil, errProviderUnavailable
	}

	return p.generateRecords(q), nil
}

func (p *Flight1) generateRecords(q query) []map[string]any {
	return []map[string]any{
		{
			"airline":        "IndiGo",
			"flight_number":  "6E-204",
			"departure_time": "21:50",
			"arrival_time":   "0:05",
			"duration":       "2h 15m",
			"origin":         q.Origin,
			"destination":    q.Destination,
			"price":          4700 + p.rng.Intn(500),
		},
		{
			"airline":        "Vistara",
			"flight_number":  "UK-997",
			"departure_time": "6:10",
			"arrival_time":   "8:35",
			"duration":       "2h 25m",
			"origin":         q.Origin,
			"destination":    q.Destination,
			"price":          5200 + p.rng.Intn(600),
		},
		{
			"airline":        "Air India",
			"flight_number":  "AI-865",
			"departure_time": "13:05",
			"arrival_time":   "15:20",
			"duration":       "2h 15m",
			"origin":         q.Origin,
			"destination":    q.Destination,
			"price":          4500 + p.rng.Intn(700),
		},
	}
}

// ServeHTTP handles HTTP requests for this provider.
func (p *Flight1) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
