package expense

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// reAmountNoise strips currency symbols, thousands separators, and other
// decoration ("$1,234.50" -> "1234.50").
var reAmountNoise = regexp.MustCompile(`[^0-9.\-]`)

// ResolveAmount guarantees a numeric, non-negative amount. A present,
// parseable raw value wins; otherwise the item sum; otherwise 0. It never
// errors: unparseable input degrades to 0, which callers must read as
// "amount unknown", not "zero-cost item".
func ResolveAmount(raw any, items []LineItem) float64 {
	if v, ok := coerceAmount(raw); ok {
		if v < 0 {
			return 0
		}
		return v
	}
	if len(items) > 0 {
		return SumItems(items)
	}
	return 0
}

// SumItems returns Σ price*quantity with quantity defaulting to 1.
// Negative prices or quantities contribute nothing.
func SumItems(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		if it.Price < 0 {
			continue
		}
		sum += it.Price * qty
	}
	if sum < 0 {
		return 0
	}
	return sum
}

func coerceAmount(raw any) (float64, bool) {
	switch t := raw.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		return parseAmountString(t)
	default:
		return 0, false
	}
}

func parseAmountString(s string) (float64, bool) {
	cleaned := reAmountNoise.ReplaceAllString(strings.TrimSpace(s), "")
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
