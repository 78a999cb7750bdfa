// Package reconcile merges heterogeneous search results from multiple
// providers into cross-provider comparison groups. It is a pure library:
// it holds no state between calls, never performs I/O, and degrades
// missing or malformed fields to sentinel values instead of failing.
package reconcile

import "sort"

// BestPrice identifies the cheapest member of a group. Price.Known is
// false when no member carried a parseable price; such a group has no
// winner and renders as "--".
type BestPrice struct {
	ProviderID string `json:"provider_id"`
	Price      Price  `json:"price"`
}

// Group is the set of records believed to represent the same real-world
// item across providers.
type Group struct {
	Key          string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Members      []Record  `json:"members"`
	Best         BestPrice `json:"best_price"`
	IsComparison bool      `json:"is_comparison"`
}

// Reconcile folds provider result lists, in input order, into
// insertion-ordered comparison groups. Two records land in the same group
// iff their group keys are equal; the group's display name is the longest
// member name seen (ties keep the earlier one). Empty input yields an
// empty slice, never an error.
func Reconcile(results []ProviderResult, normalize Normalizer) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, pr := range results {
		for _, raw := range pr.Records {
			rec, ok := normalize(pr.ProviderID, raw)
			if !ok {
				continue
			}

			i, seen := index[rec.GroupKey]
			if !seen {
				index[rec.GroupKey] = len(groups)
				groups = append(groups, Group{
					Key:         rec.GroupKey,
					DisplayName: rec.DisplayName,
					Members:     []Record{rec},
				})
				continue
			}

			g := &groups[i]
			g.Members = append(g.Members, rec)
			if len(rec.DisplayName) > len(g.DisplayName) {
				g.DisplayName = rec.DisplayName
			}
		}
	}

	for i := range groups {
		g := &groups[i]
		g.Best = bestOf(g.Members)
		g.IsComparison = len(g.Members) > 1
	}

	return groups
}

func bestOf(members []Record) BestPrice {
	var best BestPrice
	for _, m := range members {
		if !m.Price.Known {
			continue
		}
		if !best.Price.Known || m.Price.Amount < best.Price.Amount {
			best = BestPrice{ProviderID: m.ProviderID, Price: m.Price}
		}
	}
	return best
}

// SortCriterion selects an ordering for SortGroups.
type SortCriterion string

const (
	// SortCheapest orders by best price ascending; groups with no known
	// price sort last.
	SortCheapest SortCriterion = "cheapest"
	// SortFastest orders flights by total duration ascending.
	SortFastest SortCriterion = "fastest"
	// SortEarliest orders flights by departure time ascending.
	SortEarliest SortCriterion = "earliest"
	// SortRating orders hotels by the maximum member rating descending.
	SortRating SortCriterion = "rating"
	// SortBestMatch orders by provider coverage descending, then best
	// price ascending. Default for hotels.
	SortBestMatch SortCriterion = "best_match"
)

// SortGroups returns a stably sorted copy; the input slice is not mutated.
// Unknown criteria fall back to cheapest.
func SortGroups(groups []Group, criterion SortCriterion) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)

	switch criterion {
	case SortFastest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].duration() < out[j].duration()
		})
	case SortEarliest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].departure() < out[j].departure()
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].maxRating() > out[j].maxRating()
		})
	case SortBestMatch:
		sort.SliceStable(out, func(i, j int) bool {
			if len(out[i].Members) != len(out[j].Members) {
				return len(out[i].Members) > len(out[j].Members)
			}
			return out[i].Best.Price.sortValue() < out[j].Best.Price.sortValue()
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Best.Price.sortValue() < out[j].Best.Price.sortValue()
		})
	}

	return out
}

// FilterMultiProvider keeps only groups covered by more than one record,
// preserving relative order.
func FilterMultiProvider(groups []Group) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.IsComparison {
			out = append(out, g)
		}
	}
	return out
}

// The representative for time-based sorts is the first member, which is
// the first record seen in provider input order.

func (g Group) duration() int {
	if len(g.Members) == 0 {
		return durationSentinel
	}
	return g.Members[0].DurationMinutes
}

func (g Group) departure() int {
	if len(g.Members) == 0 {
		return 0
	}
	return g.Members[0].DepartureMinutes
}

func (g Group) maxRating() float64 {
	var max float64
	for _, m := range g.Members {
		if m.Rating > max {
			max = m.Rating
		}
	}
	return max
}
