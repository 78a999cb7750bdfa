package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alex-user-go/tripcompare/internal/middleware"
	"github.com/alex-user-go/tripcompare/internal/obs"
	"github.com/alex-user-go/tripcompare/internal/providers"
	"github.com/alex-user-go/tripcompare/internal/reconcile"
	"github.com/alex-user-go/tripcompare/internal/search"
	"github.com/alex-user-go/tripcompare/internal/search/cache"
	"github.com/alex-user-go/tripcompare/internal/search/ratelimit"
	"github.com/alex-user-go/tripcompare/internal/search/types"
)

// Handler handles HTTP requests.
type Handler struct {
	hotels      *search.Aggregator
	flights     *search.Aggregator
	cache       cache.Store
	sessions    *search.Sessions
	rateLimiter *ratelimit.Limiter
	metrics     *obs.Metrics
	logger      *slog.Logger
}

// New creates a new Handler.
func New(
	hotels *search.Aggregator,
	flights *search.Aggregator,
	store cache.Store,
	sessions *search.Sessions,
	rateLimiter *ratelimit.Limiter,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		hotels:      hotels,
		flights:     flights,
		cache:       store,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		logger:      logger,
	}
}

var (
	hotelSorts = map[reconcile.SortCriterion]bool{
		reconcile.SortCheapest:  true,
		reconcile.SortRating:    true,
		reconcile.SortBestMatch: true,
	}
	flightSorts = map[reconcile.SortCriterion]bool{
		reconcile.SortCheapest: true,
		reconcile.SortFastest:  true,
		reconcile.SortEarliest: true,
	}
)

// SearchResponse represents the complete API response.
type SearchResponse struct {
	Search SearchInfo  `json:"search"`
	Stats  SearchStats `json:"stats"`
	Groups []GroupView `json:"groups"`
}

// SearchInfo echoes the search parameters.
type SearchInfo struct {
	City        string `json:"city,omitempty"`
	Checkin     string `json:"checkin,omitempty"`
	Nights      int    `json:"nights,omitempty"`
	Adults      int    `json:"adults,omitempty"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Date        string `json:"date,omitempty"`
	Sort        string `json:"sort"`
}

// SearchStats contains search statistics.
type SearchStats struct {
	ProvidersTotal     int    `json:"providers_total"`
	ProvidersSucceeded int    `json:"providers_succeeded"`
	ProvidersFailed    int    `json:"providers_failed"`
	Cache              string `json:"cache"`
	DurationMs         int64  `json:"duration_ms"`
}

// GroupView decorates a comparison group with its display price. A group
// with no parseable member price renders "--", never a numeric winner.
type GroupView struct {
	reconcile.Group
	BestPriceDisplay string `json:"best_price_display"`
}

// HotelsHandler handles /search/hotels requests.
func (h *Handler) HotelsHandler(w http.ResponseWriter, r *http.Request) {
	h.serveSearch(w, r, h.hotels, ParseHotelParams)
}

// FlightsHandler handles /search/flights requests.
func (h *Handler) FlightsHandler(w http.ResponseWriter, r *http.Request) {
	h.serveSearch(w, r, h.flights, ParseFlightParams)
}

func (h *Handler) serveSearch(
	w http.ResponseWriter,
	r *http.Request,
	agg *search.Aggregator,
	parse func(*http.Request) (*SearchParams, error),
) {
	startTime := time.Now()
	h.metrics.IncRequests()
	requestID := middleware.RequestID(r.Context())

	// Check rate limit
	ip := ExtractIP(r)
	if !h.rateLimiter.Allow(ip) {
		h.logger.Warn("rate limit exceeded", "request_id", requestID, "ip", ip)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	params, err := parse(r)
	if err != nil {
		h.logger.Debug("invalid request parameters", "request_id", requestID, "error", err, "ip", ip)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Register this query as the session's newest; an older in-flight
	// search on the same session becomes stale.
	var tag string
	if params.SessionID != "" {
		tag = h.sessions.Begin(params.SessionID)
	}

	result, cacheHit, err := h.cache.GetOrFetch(r.Context(), params.CacheKey, func() (*types.Result, error) {
		return agg.Search(r.Context(), params.Query)
	})
	if err != nil {
		h.logger.Error("search failed",
			"request_id", requestID,
			"error", err,
			"ip", ip,
		)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	// Provider calls are never cancelled mid-flight; a superseded search
	// simply has its results discarded here.
	if params.SessionID != "" && !h.sessions.Current(params.SessionID, tag) {
		h.metrics.IncStaleDrops()
		h.logger.Info("discarding superseded search",
			"request_id", requestID,
			"session_id", params.SessionID,
		)
		writeError(w, http.StatusConflict, search.ErrSuperseded.Error())
		return
	}

	groups := result.Groups
	if params.OnlyComparisons {
		groups = reconcile.FilterMultiProvider(groups)
	}
	groups = reconcile.SortGroups(groups, params.Sort)

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.IncCacheHits()
	}

	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, GroupView{Group: g, BestPriceDisplay: g.Best.Price.String()})
	}

	response := SearchResponse{
		Search: params.Info(),
		Stats: SearchStats{
			ProvidersTotal:     result.ProvidersTotal,
			ProvidersSucceeded: result.ProvidersSucceeded,
			ProvidersFailed:    result.ProvidersFailed,
			Cache:              cacheStatus,
			DurationMs:         time.Since(startTime).Milliseconds(),
		},
		Groups: views,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Can't change status after WriteHeader, just log
		h.logger.Error("failed to encode response", "error", err)
	}
}

// SearchParams holds one validated search request.
type SearchParams struct {
	Query           providers.Query
	Sort            reconcile.SortCriterion
	OnlyComparisons bool
	SessionID       string
	CacheKey        string
}

// Info renders the echo section of the response.
func (p *SearchParams) Info() SearchInfo {
	return SearchInfo{
		City:        p.Query.City,
		Checkin:     p.Query.Checkin,
		Nights:      p.Query.Nights,
		Adults:      p.Query.Adults,
		Origin:      p.Query.Origin,
		Destination: p.Query.Destination,
		Date:        p.Query.Date,
		Sort:        string(p.Sort),
	}
}

// ParseHotelParams parses and validates hotel search parameters.
func ParseHotelParams(r *http.Request) (*SearchParams, error) {
	query := r.URL.Query()

	city := strings.TrimSpace(query.Get("city"))
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	checkin := strings.TrimSpace(query.Get("checkin"))
	if checkin == "" {
		return nil, fmt.Errorf("checkin is required")
	}
	if _, err := time.Parse("2006-01-02", checkin); err != nil {
		return nil, fmt.Errorf("checkin must be in YYYY-MM-DD format")
	}

	nights, err := positiveInt(query.Get("nights"))
	if err != nil {
		return nil, fmt.Errorf("nights must be a positive integer")
	}

	adults, err := positiveInt(query.Get("adults"))
	if err != nil {
		return nil, fmt.Errorf("adults must be a positive integer")
	}

	sort, onlyComparisons, sessionID, err := parseCommon(r, reconcile.SortBestMatch, hotelSorts)
	if err != nil {
		return nil, err
	}

	return &SearchParams{
		Query:           providers.Query{City: city, Checkin: checkin, Nights: nights, Adults: adults},
		Sort:            sort,
		OnlyComparisons: onlyComparisons,
		SessionID:       sessionID,
		CacheKey:        cache.Key("hotels", city, checkin, strconv.Itoa(nights), strconv.Itoa(adults)),
	}, nil
}

// ParseFlightParams parses and validates flight search parameters.
func ParseFlightParams(r *http.Request) (*SearchParams, error) {
	query := r.URL.Query()

	origin := strings.TrimSpace(query.Get("origin"))
	if origin == "" {
		return nil, fmt.Errorf("origin is required")
	}

	destination := strings.TrimSpace(query.Get("destination"))
	if destination == "" {
		return nil, fmt.Errorf("destination is required")
	}

	date := strings.TrimSpace(query.Get("date"))
	if date == "" {
		return nil, fmt.Errorf("date is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("date must be in YYYY-MM-DD format")
	}

	sort, onlyComparisons, sessionID, err := parseCommon(r, reconcile.SortCheapest, flightSorts)
	if err != nil {
		return nil, err
	}

	return &SearchParams{
		Query:           providers.Query{Origin: origin, Destination: destination, Date: date},
		Sort:            sort,
		OnlyComparisons: onlyComparisons,
		SessionID:       sessionID,
		CacheKey:        cache.Key("flights", origin, destination, date),
	}, nil
}

func parseCommon(
	r *http.Request,
	defaultSort reconcile.SortCriterion,
	allowed map[reconcile.SortCriterion]bool,
) (reconcile.SortCriterion, bool, string, error) {
	query := r.URL.Query()

	sort := defaultSort
	if s := strings.TrimSpace(query.Get("sort")); s != "" {
		sort = reconcile.SortCriterion(s)
		if !allowed[sort] {
			return "", false, "", fmt.Errorf("unsupported sort %q", s)
		}
	}

	onlyComparisons := false
	if v := query.Get("only_comparisons"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return "", false, "", fmt.Errorf("only_comparisons must be a boolean")
		}
		onlyComparisons = parsed
	}

	return sort, onlyComparisons, strings.TrimSpace(query.Get("session_id")), nil
}

func positiveInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("required")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	// Check X-Forwarded-For (first IP in the list)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr (strip port)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
