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

// Hotel1 mimics an OTA that returns clean field names but free-form price
// strings. 100ms base latency, 10% failure rate.
type Hotel1 struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// NewHotel1 creates the first hotel mock.
func NewHotel1() *Hotel1 {
	return &Hotel1{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func (p *Hotel1) search(ctx context.Context, q query) ([]map[string]any, error) {
	// Simulate random latency (50ms to 200ms)
	latency := time.Duration(50+p.rng.Intn(150)) * time.Millisecond

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}

	// Simulate 10% failure rate
	if p.rng.Float64() < 0.1 {
		return nil, errProviderUnavailable
	}

	return p.generateRecords(q.Nights), nil
}

func (p *Hotel1) generateRecords(nights int) []map[string]any {
	if nights < 1 {
		nights = 1
	}

	return []map[string]any{
		{
			"name":   "Ginger Mumbai Airport",
			"price":  inr(p.nightly(9000, 14000) * nights),
			"rating": 4.1,
			"image":  "https://cdn.example.com/ginger-mumbai.jpg",
		},
		{
			"name":   "Taj Lands End Bandra",
			"price":  inr(p.nightly(14000, 22000) * nights),
			"rating": 4.8,
			"image":  "https://cdn.example.com/taj-lands-end.jpg",
		},
		{
			"name":   "Grand Hyatt Mumbai",
			"price":  inr(p.nightly(11000, 17000) * nights),
			"rating": 4.5,
			"image":  "https://cdn.example.com/grand-hyatt.jpg",
		},
		{
			"name":   "Budget Stay Andheri",
			"price":  inr(p.nightly(2000, 4000) * nights),
			"rating": 3.4,
		},
	}
}

func (p *Hotel1) nightly(min, max int) int {
	return min + p.rng.Intn(max-min)
}

// ServeHTTP handles HTTP requests for this provider.
func (p *Hotel1) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var q query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if q.City == "" || q.Checkin == "" {
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
