package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// query mirrors the aggregator's search request body.
type query struct {
	City        string `json:"city,omitempty"`
	Checkin     string `json:"checkin,omitempty"`
	Nights      int    `json:"nights,omitempty"`
	Adults      int    `json:"adults,omitempty"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Date        string `json:"date,omitempty"`
}

// searchResponse is the wire format every mock returns: raw rows with
// provider-specific field names and loosely formatted prices.
type searchResponse struct {
	Records   []map[string]any `json:"records"`
	SessionID string           `json:"session_id,omitempty"`
}

var errProviderUnavailable = errors.New("provider unavailable")

// inr renders an amount the way the real partner sites do, rupee sign and
// thousands separators included.
func inr(amount int) string {
	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return "₹ " + b.String()
}

func main() {
	port := getEnv("PORT", "9001")
	providerType := getEnv("PROVIDER_TYPE", "hotel1")

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var handler http.Handler

	switch providerType {
	case "hotel1":
		handler = NewHotel1()
	case "hotel2":
		handler = NewHotel2()
	case "flight1":
		handler = NewFlight1()
	case "flight2":
		handler = NewFlight2()
	default:
		logger.Error("unknown provider type", "type", providerType)
		os.Exit(1)
	}
	logger.Info("starting provider", "type", providerType, "port", port)

	// Setup routes
	mux := http.NewServeMux()
	mux.Handle("POST /search", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write healthz response", "error", err)
		}
	})

	// Configure server
	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
