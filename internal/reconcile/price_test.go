package reconcile_test

import (
	"testing"

	"github.com/alex-user-go/tripcompare/internal/reconcile"
)

func TestParsePrice_Strings(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantAmount float64
		wantKnown  bool
	}{
		{name: "rupee with thousands separator", input: "₹ 37,000", wantAmount: 37000, wantKnown: true},
		{name: "decimal with separator", input: "1,250.50", wantAmount: 1250.5, wantKnown: true},
		{name: "plain integer", input: "349", wantAmount: 349, wantKnown: true},
		{name: "last run wins over mrp", input: "MRP ₹500 ₹349", wantAmount: 349, wantKnown: true},
		{name: "empty string", input: "", wantKnown: false},
		{name: "no digits", input: "N/A", wantKnown: false},
		{name: "currency only", input: "₹ --", wantKnown: false},
		{name: "trailing text", input: "2,499 per night", wantAmount: 2499, wantKnown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.ParsePrice(tt.input)
			if got.Known != tt.wantKnown {
				t.Fatalf("ParsePrice(%q).Known = %v, want %v", tt.input, got.Known, tt.wantKnown)
			}
			if got.Known && got.Amount != tt.wantAmount {
				t.Errorf("ParsePrice(%q).Amount = %v, want %v", tt.input, got.Amount, tt.wantAmount)
			}
		})
	}
}

func TestParsePrice_NonStrings(t *testing.T) {
	if got := reconcile.ParsePrice(nil); got.Known {
		t.Errorf("ParsePrice(nil) = %+v, want unknown", got)
	}

	got := reconcile.ParsePrice(float64(1499.99))
	if !got.Known || got.Amount != 1499.99 {
		t.Errorf("ParsePrice(1499.99) = %+v, want known 1499.99", got)
	}

	got = reconcile.ParsePrice(250)
	if !got.Known || got.Amount != 250 {
		t.Errorf("ParsePrice(250) = %+v, want known 250", got)
	}

	// Unsupported types degrade to unknown, never panic.
	if got := reconcile.ParsePrice([]string{"500"}); got.Known {
		t.Errorf("ParsePrice(slice) = %+v, want unknown", got)
	}
}

func TestPrice_String(t *testing.T) {
	if got := (reconcile.Price{}).String(); got != "--" {
		t.Errorf("unknown price renders %q, want --", got)
	}
	if got := (reconcile.Price{Amount: 15500, Known: true}).String(); got != "15500" {
		t.Errorf("known price renders %q, want 15500", got)
	}
}
