package reconcile

import (
	"regexp"
	"strconv"
	"strings"
)

// Price is a parsed price value. Known is false when the source field was
// missing or carried no digits; an unknown price sorts after every known
// price and never wins a group's best-price slot.
type Price struct {
	Amount float64 `json:"amount"`
	Known  bool    `json:"known"`
}

// priceSentinel keeps unknown prices at the end of ascending sorts.
const priceSentinel = 999999

// A maximal run of digits, optionally grouped by thousands separators,
// with at most one decimal point.
var priceRunRe = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)

// ParsePrice extracts a numeric price from a raw provider value. Strings
// may carry currency symbols, grouping separators and marketing noise;
// when several digit runs appear ("MRP ₹500 ₹349") the last one wins,
// since discounted prices are conventionally printed last. Malformed input
// degrades to an unknown price, never a panic.
func ParsePrice(v any) Price {
	switch x := v.(type) {
	case float64:
		return Price{Amount: x, Known: true}
	case int:
		return Price{Amount: float64(x), Known: true}
	case string:
		runs := priceRunRe.FindAllString(x, -1)
		if len(runs) == 0 {
			return Price{}
		}
		last := strings.ReplaceAll(runs[len(runs)-1], ",", "")
		amount, err := strconv.ParseFloat(last, 64)
		if err != nil {
			return Price{}
		}
		return Price{Amount: amount, Known: true}
	}
	return Price{}
}

// sortValue maps a price onto a total order for ascending sorts.
func (p Price) sortValue() float64 {
	if !p.Known {
		return priceSentinel
	}
	return p.Amount
}

// String renders the price for display; unknown prices render as "--".
func (p Price) String() string {
	if !p.Known {
		return "--"
	}
	return strconv.FormatFloat(p.Amount, 'f', -1, 64)
}
