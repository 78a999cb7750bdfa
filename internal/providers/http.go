package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alex-user-go/tripcompare/internal/reconcile"
)

// HTTPProvider queries a provider's search endpoint: a POST of the JSON
// query to <baseURL>/search, answered with a JSON body of raw records.
// Outbound calls are throttled per provider so a burst of user searches
// cannot trip a partner's own rate limits.
type HTTPProvider struct {
	id         string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPProvider creates a new HTTPProvider. rps <= 0 disables outbound
// throttling.
func NewHTTPProvider(id, baseURL string, timeout time.Duration, rps float64) *HTTPProvider {
	var limiter *rate.Limiter
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return &HTTPProvider{
		id:      id,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

// ID returns the provider identifier.
func (p *HTTPProvider) ID() string {
	return p.id
}

// searchResponse is the provider wire format. SessionID is returned by
// booking-capable providers and threaded through multi-step flows by the
// caller; search-only consumers ignore it.
type searchResponse struct {
	Records   []reconcile.RawRecord `json:"records"`
	SessionID string                `json:"session_id,omitempty"`
}

// Search posts the query and returns the provider's raw records.
func (p *HTTPProvider) Search(ctx context.Context, q Query) ([]reconcile.RawRecord, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Explicitly ignore close error
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider %s returned status %d: %s", p.id, resp.StatusCode, string(respBody))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return parsed.Records, nil
}
