package reconcile_test

import (
	"reflect"
	"testing"

	"github.com/alex-user-go/tripcompare/internal/reconcile"
)

func hotelResults() []reconcile.ProviderResult {
	return []reconcile.ProviderResult{
		{
			ProviderID: "agoda",
			Records: []reconcile.RawRecord{
				{"name": "Ginger Mumbai Airport", "price": "₹ 25,746", "rating": "4.1"},
				{"name": "Taj Lands End", "price": "₹ 31,000", "rating": 4.8},
			},
		},
		{
			ProviderID: "booking",
			Records: []reconcile.RawRecord{
				{"title": "Ginger Mumbai Airport Express", "price_text": "₹ 15,500", "review_score": "3.9"},
				{"title": "Leela Palace", "price_text": "rates unavailable"},
			},
		},
	}
}

func TestReconcile_HotelGrouping(t *testing.T) {
	groups := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	ginger := groups[0]
	if ginger.Key != "ginger mumbai" {
		t.Errorf("expected key 'ginger mumbai', got %q", ginger.Key)
	}
	if len(ginger.Members) != 2 {
		t.Fatalf("expected 2 members in ginger group, got %d", len(ginger.Members))
	}
	if !ginger.IsComparison {
		t.Error("expected ginger group to be a comparison")
	}
	// Longer name wins the display slot.
	if ginger.DisplayName != "Ginger Mumbai Airport Express" {
		t.Errorf("expected longest name as display name, got %q", ginger.DisplayName)
	}
	if ginger.Best.ProviderID != "booking" || ginger.Best.Price.Amount != 15500 {
		t.Errorf("expected best price 15500 from booking, got %+v", ginger.Best)
	}
}

func TestReconcile_SingletonGroup(t *testing.T) {
	groups := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)

	taj := groups[1]
	if taj.IsComparison {
		t.Error("expected singleton group, got comparison")
	}
	if taj.Best.ProviderID != "agoda" || taj.Best.Price.Amount != 31000 {
		t.Errorf("expected best price 31000 from agoda, got %+v", taj.Best)
	}
}

func TestReconcile_NoParseablePrice(t *testing.T) {
	groups := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)

	leela := groups[2]
	if leela.Best.Price.Known {
		t.Errorf("expected no best-price winner, got %+v", leela.Best)
	}
	if got := leela.Best.Price.String(); got != "--" {
		t.Errorf("unknown best price renders %q, want --", got)
	}
}

func TestReconcile_FlightDedupe(t *testing.T) {
	results := []reconcile.ProviderResult{
		{
			ProviderID: "agoda",
			Records: []reconcile.RawRecord{
				{"airline": "IndiGo", "departure_time": "21:50", "origin": "Mumbai", "destination": "Delhi", "price": "₹ 4,899", "duration": "2h 10m"},
			},
		},
		{
			ProviderID: "booking",
			Records: []reconcile.RawRecord{
				{"carrier": "IndiGo", "dep_time": "9:50 pm", "from": "Mumbai", "to": "Delhi", "price_text": "₹ 4,650", "travel_time": "2h 10m"},
			},
		},
	}

	groups := reconcile.Reconcile(results, reconcile.NormalizeFlight)

	if len(groups) != 1 {
		t.Fatalf("expected offers to merge into 1 group, got %d", len(groups))
	}
	g := groups[0]
	if len(g.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(g.Members))
	}
	if g.Members[0].Departure != "9:50 PM" || g.Members[1].Departure != "9:50 PM" {
		t.Errorf("expected formatted departure 9:50 PM, got %q and %q",
			g.Members[0].Departure, g.Members[1].Departure)
	}
	if g.Best.ProviderID != "booking" || g.Best.Price.Amount != 4650 {
		t.Errorf("expected best 4650 from booking, got %+v", g.Best)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	first := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)
	second := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different output")
	}
}

func TestReconcile_Partition(t *testing.T) {
	results := hotelResults()
	groups := reconcile.Reconcile(results, reconcile.NormalizeHotel)

	var total int
	for _, pr := range results {
		for _, raw := range pr.Records {
			if _, ok := reconcile.NormalizeHotel(pr.ProviderID, raw); ok {
				total++
			}
		}
	}

	var grouped int
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, m := range g.Members {
			grouped++
			id := m.ProviderID + "|" + m.DisplayName
			if seen[id] {
				t.Errorf("record %s appears in more than one group", id)
			}
			seen[id] = true
		}
	}

	if grouped != total {
		t.Errorf("grouped %d records, normalized %d", grouped, total)
	}
}

func TestReconcile_BestPriceIsMinimum(t *testing.T) {
	groups := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)
	for _, g := range groups {
		for _, m := range g.Members {
			if m.Price.Known && g.Best.Price.Known && m.Price.Amount < g.Best.Price.Amount {
				t.Errorf("group %q: member price %v below best %v", g.Key, m.Price.Amount, g.Best.Price.Amount)
			}
		}
	}
}

func TestReconcile_EmptyInput(t *testing.T) {
	if got := reconcile.Reconcile(nil, reconcile.NormalizeHotel); len(got) != 0 {
		t.Errorf("expected empty result, got %d groups", len(got))
	}

	empty := []reconcile.ProviderResult{{ProviderID: "agoda"}, {ProviderID: "booking"}}
	if got := reconcile.Reconcile(empty, reconcile.NormalizeHotel); len(got) != 0 {
		t.Errorf("expected empty result for empty record lists, got %d groups", len(got))
	}
}

func TestSortGroups_Cheapest(t *testing.T) {
	results := []reconcile.ProviderResult{
		{
			ProviderID: "agoda",
			Records: []reconcile.RawRecord{
				{"name": "Taj Lands End", "price": "₹ 31,000"},
				{"name": "Leela Palace", "price": "no price"},
				{"name": "Ginger Mumbai", "price": "₹ 5,200"},
			},
		},
	}

	groups := reconcile.SortGroups(reconcile.Reconcile(results, reconcile.NormalizeHotel), reconcile.SortCheapest)

	for i := 1; i < len(groups); i++ {
		prev, cur := groups[i-1].Best.Price, groups[i].Best.Price
		if !prev.Known && cur.Known {
			t.Error("unknown price sorted before known price")
		}
		if prev.Known && cur.Known && prev.Amount > cur.Amount {
			t.Errorf("not ascending: %v before %v", prev.Amount, cur.Amount)
		}
	}
	if groups[len(groups)-1].Best.Price.Known {
		t.Error("expected the unpriced group to sort last")
	}
}

func TestSortGroups_BestMatch(t *testing.T) {
	groups := reconcile.SortGroups(reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel), reconcile.SortBestMatch)

	if len(groups[0].Members) < len(groups[1].Members) {
		t.Error("expected multi-provider group ranked first")
	}
	if groups[0].Key != "ginger mumbai" {
		t.Errorf("expected ginger group first, got %q", groups[0].Key)
	}
}

func TestSortGroups_Rating(t *testing.T) {
	groups := reconcile.SortGroups(reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel), reconcile.SortRating)

	// Taj carries the top rating (4.8); the unrated Leela sorts last.
	if groups[0].Key != "taj lands" {
		t.Errorf("expected taj first by rating, got %q", groups[0].Key)
	}
	if groups[len(groups)-1].Key != "leela palace" {
		t.Errorf("expected unrated group last, got %q", groups[len(groups)-1].Key)
	}
}

func TestSortGroups_FastestAndEarliest(t *testing.T) {
	results := []reconcile.ProviderResult{
		{
			ProviderID: "skylink",
			Records: []reconcile.RawRecord{
				{"airline": "Vistara", "departure_time": "6:10", "origin": "BOM", "destination": "DEL", "price": "5100", "duration": "2h 25m"},
				{"airline": "IndiGo", "departure_time": "21:50", "origin": "BOM", "destination": "DEL", "price": "4899", "duration": "2h 10m"},
				{"airline": "Air India", "departure_time": "13:05", "origin": "BOM", "destination": "DEL", "price": "4700", "duration": "see details"},
			},
		},
	}
	groups := reconcile.Reconcile(results, reconcile.NormalizeFlight)

	fastest := reconcile.SortGroups(groups, reconcile.SortFastest)
	if fastest[0].DisplayName != "IndiGo" {
		t.Errorf("expected IndiGo fastest, got %q", fastest[0].DisplayName)
	}
	if fastest[len(fastest)-1].DisplayName != "Air India" {
		t.Error("expected unparseable duration to sort last")
	}

	earliest := reconcile.SortGroups(groups, reconcile.SortEarliest)
	if earliest[0].DisplayName != "Vistara" {
		t.Errorf("expected Vistara earliest, got %q", earliest[0].DisplayName)
	}
}

func TestSortGroups_DoesNotMutateInput(t *testing.T) {
	groups := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)
	before := make([]string, len(groups))
	for i, g := range groups {
		before[i] = g.Key
	}

	reconcile.SortGroups(groups, reconcile.SortCheapest)

	for i, g := range groups {
		if g.Key != before[i] {
			t.Fatal("SortGroups mutated its input")
		}
	}
}

func TestFilterMultiProvider(t *testing.T) {
	groups := reconcile.Reconcile(hotelResults(), reconcile.NormalizeHotel)
	filtered := reconcile.FilterMultiProvider(groups)

	if len(filtered) != 1 {
		t.Fatalf("expected 1 comparison group, got %d", len(filtered))
	}
	if filtered[0].Key != "ginger mumbai" {
		t.Errorf("expected ginger group, got %q", filtered[0].Key)
	}

	// Relative order is preserved.
	var keys []string
	for _, g := range groups {
		if g.IsComparison {
			keys = append(keys, g.Key)
		}
	}
	for i, g := range filtered {
		if g.Key != keys[i] {
			t.Error("filter reordered groups")
		}
	}
}

func TestNormalizeHotel_AliasChains(t *testing.T) {
	raw := reconcile.RawRecord{
		"hotel_name": "Fallback Inn",
		"amount":     2400.0,
		"stars":      3,
	}
	rec, ok := reconcile.NormalizeHotel("oyo", raw)
	if !ok {
		t.Fatal("expected record to normalize")
	}
	if rec.DisplayName != "Fallback Inn" {
		t.Errorf("expected hotel_name alias, got %q", rec.DisplayName)
	}
	if !rec.Price.Known || rec.Price.Amount != 2400 {
		t.Errorf("expected amount alias price 2400, got %+v", rec.Price)
	}
	if rec.Rating != 3 {
		t.Errorf("expected stars alias rating 3, got %v", rec.Rating)
	}

	// Higher-priority alias wins even when both are present.
	raw["name"] = "Primary Hotel"
	rec, _ = reconcile.NormalizeHotel("oyo", raw)
	if rec.DisplayName != "Primary Hotel" {
		t.Errorf("expected name alias to win, got %q", rec.DisplayName)
	}
}

func TestNormalizeHotel_DropsNameless(t *testing.T) {
	if _, ok := reconcile.NormalizeHotel("oyo", reconcile.RawRecord{"price": "₹ 900"}); ok {
		t.Error("expected nameless record to be dropped")
	}
	if _, ok := reconcile.NormalizeHotel("oyo", reconcile.RawRecord{"name": "   "}); ok {
		t.Error("expected blank name to be dropped")
	}
}
