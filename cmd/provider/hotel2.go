package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Hotel2 mimics an OTA with different field names: title/price_text/
// review_score, struck-through MRP prices, string-typed ratings. Some of
// its properties overlap Hotel1's so comparison groups appear.
type Hotel2 struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// NewHotel2 creates the second hotel mock.
func NewHotel2() *Hotel2 {
	return &Hotel2{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func (p *Hotel2) search(ctx context.Context, q query) ([]map[string]any, error) {
	latency := time.Duration(80+p.rng.Intn(200)) * time.Millisecond

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}

	// Simulate 15% failure rate
	if p.rng.Float64() < 0.15 {
		return nil, errProviderUnavailable
	}

	return p.generateRecords(q.Nights), nil
}

func (p *Hotel2) generateRecords(nights int) []map[string]any {
	if nights < 1 {
		nights = 1
	}

	return []map[string]any{
		{
			// Same property as Hotel1's "Ginger Mumbai Airport",
			// different spelling; the two-token key still merges them.
			"title":        "Ginger Mumbai Airport Express",
			"price_text":   p.struckPrice(9000, 13000, nights),
			"review_score": "3.9",
		},
		{
			"title":        "Taj Lands End",
			"price_text":   p.struckPrice(15000, 21000, nights),
			"review_score": "4.7",
		},
		{
			"title":        "Leela Palace Sahar",
			"price_text":   p.struckPrice(16000, 24000, nights),
			"review_score": "4.6",
		},
		{
			// Rates sometimes come back without a price at all.
			"title":      "Seaside Residency Juhu",
			"price_text": "rates on request",
		},
	}
}

// struckPrice renders "MRP <list> <effective>": the effective price comes
// last, which is what the price parser keys on.
func (p *Hotel2) struckPrice(min, max, nights int) string {
	effective := (min + p.rng.Intn(max-min)) * nights
	list := effective + effective/5
	return fmt.Sprintf("MRP %s %s", inr(list), inr(effective))
}

// ServeHTTP handles HTTP requests for this provider.
func (p *Hotel2) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
