package reconcile

import (
	"strconv"
	"strings"
)

// RawRecord is one result row exactly as a provider returned it. Providers
// disagree on field names, so typed access goes through the alias chains
// below.
type RawRecord map[string]any

// ProviderResult pairs a provider with its raw rows for one search. A
// provider whose call failed contributes an empty Records slice.
type ProviderResult struct {
	ProviderID string
	Records    []RawRecord
}

// Record is the normalized form of a RawRecord.
type Record struct {
	ProviderID  string `json:"provider_id"`
	DisplayName string `json:"display_name"`
	Price       Price  `json:"price"`
	GroupKey    string `json:"-"`

	// Hotel fields.
	Rating float64 `json:"rating,omitempty"`

	// Flight fields. DurationMinutes carries a large sentinel when the
	// provider's duration text was unparseable.
	Departure        string `json:"departure,omitempty"`
	Arrival          string `json:"arrival,omitempty"`
	DurationMinutes  int    `json:"duration_minutes,omitempty"`
	DepartureMinutes int    `json:"departure_minutes,omitempty"`

	Link  string `json:"link,omitempty"`
	Image string `json:"image,omitempty"`
}

// A Normalizer converts one raw row into a Record. It reports false when
// the row carries too little data to display or group (no usable name).
type Normalizer func(providerID string, raw RawRecord) (Record, bool)

// Field alias chains, tried in priority order; the first present,
// non-empty value wins.
var (
	nameAliases      = []string{"name", "title", "hotel_name", "hotel"}
	priceAliases     = []string{"price", "price_text", "total_price", "amount"}
	ratingAliases    = []string{"rating", "stars", "review_score"}
	airlineAliases   = []string{"airline", "airline_name", "carrier"}
	flightNumAliases = []string{"flight_number", "flight_no", "number"}
	departureAliases = []string{"departure_time", "dep_time", "departure"}
	arrivalAliases   = []string{"arrival_time", "arr_time", "arrival"}
	durationAliases  = []string{"duration", "travel_time"}
	originAliases    = []string{"origin", "from", "source"}
	destAliases      = []string{"destination", "to", "dest"}
	linkAliases      = []string{"link", "url", "deeplink"}
	imageAliases     = []string{"image", "image_url", "thumbnail"}
)

// stringField returns the first present, non-empty alias value rendered as
// a string.
func stringField(raw RawRecord, aliases []string) string {
	for _, key := range aliases {
		switch v := raw[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// rawField returns the first present alias value with its original type
// preserved, so numeric JSON prices stay numeric for ParsePrice.
func rawField(raw RawRecord, aliases []string) any {
	for _, key := range aliases {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func ratingField(raw RawRecord, aliases []string) float64 {
	switch v := rawField(raw, aliases).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// NormalizeHotel normalizes a raw hotel row. Rows without a usable name
// are dropped: they can be neither displayed nor grouped.
func NormalizeHotel(providerID string, raw RawRecord) (Record, bool) {
	name := stringField(raw, nameAliases)
	if name == "" {
		return Record{}, false
	}

	return Record{
		ProviderID:  providerID,
		DisplayName: name,
		Price:       ParsePrice(rawField(raw, priceAliases)),
		GroupKey:    HotelGroupKey(name),
		Rating:      ratingField(raw, ratingAliases),
		Link:        stringField(raw, linkAliases),
		Image:       stringField(raw, imageAliases),
	}, true
}

// NormalizeFlight normalizes a raw flight offer. The group key combines
// airline, formatted departure time and both endpoint labels, so offers
// missing the airline are dropped.
func NormalizeFlight(providerID string, raw RawRecord) (Record, bool) {
	airline := stringField(raw, airlineAliases)
	if airline == "" {
		return Record{}, false
	}

	name := airline
	if num := stringField(raw, flightNumAliases); num != "" {
		name = airline + " " + num
	}

	departure := FormatClock(stringField(raw, departureAliases))
	origin := stringField(raw, originAliases)
	dest := stringField(raw, destAliases)

	return Record{
		ProviderID:       providerID,
		DisplayName:      name,
		Price:            ParsePrice(rawField(raw, priceAliases)),
		GroupKey:         FlightGroupKey(airline, departure, origin, dest),
		Departure:        departure,
		Arrival:          FormatClock(stringField(raw, arrivalAliases)),
		DurationMinutes:  ParseDurationMinutes(stringField(raw, durationAliases)),
		DepartureMinutes: MinutesSinceMidnight(departure),
		Link:             stringField(raw, linkAliases),
	}, true
}
