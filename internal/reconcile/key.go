package reconcile

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks so "Hôtel Élysée" and "Hotel Elysee"
// produce the same key.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var nonWordRe = regexp.MustCompile(`[^\w ]`)

// HotelGroupKey derives the matching key for a hotel name: the first two
// whitespace-separated tokens, accent-folded, lower-cased, with punctuation
// stripped. Deliberately coarse: two distinct properties sharing their
// first two words will merge, and the same property spelled differently
// will split. Surfacing obvious cross-provider duplicates is the goal, not
// perfect identity resolution.
func HotelGroupKey(name string) string {
	folded, _, err := transform.String(deaccent, name)
	if err != nil {
		folded = name
	}

	tokens := strings.Fields(folded)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}

	key := strings.ToLower(strings.Join(tokens, " "))
	return nonWordRe.ReplaceAllString(key, "")
}

// FlightGroupKey derives the matching key for a flight offer: airline,
// formatted departure time and both endpoint labels concatenated, with all
// whitespace removed and upper-cased. Offers merge only when every field
// is byte-identical after normalization, so label variants like "Mumbai"
// vs "Mumbai Airport" will not match.
func FlightGroupKey(airline, departureTime, originLabel, destLabel string) string {
	joined := airline + departureTime + originLabel + destLabel
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, joined)
	return strings.ToUpper(stripped)
}
