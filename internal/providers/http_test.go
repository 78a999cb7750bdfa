package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alex-user-go/tripcompare/internal/providers"
)

func TestHTTPProvider_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var q providers.Query
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Errorf("failed to decode query: %v", err)
		}
		if q.City != "mumbai" || q.Nights != 2 {
			t.Errorf("unexpected query %+v", q)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[{"name":"Ginger Mumbai Airport","price":"₹ 25,746"}],"session_id":"abc"}`))
	}))
	defer srv.Close()

	p := providers.NewHTTPProvider("agoda", srv.URL, 2*time.Second, 0)
	records, err := p.Search(context.Background(), providers.Query{City: "mumbai", Checkin: "2026-09-01", Nights: 2, Adults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["name"] != "Ginger Mumbai Airport" {
		t.Errorf("unexpected record %+v", records[0])
	}
}

func TestHTTPProvider_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := providers.NewHTTPProvider("agoda", srv.URL, 2*time.Second, 0)
	if _, err := p.Search(context.Background(), providers.Query{City: "mumbai"}); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestHTTPProvider_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	p := providers.NewHTTPProvider("agoda", srv.URL, 2*time.Second, 0)
	if _, err := p.Search(context.Background(), providers.Query{City: "mumbai"}); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
