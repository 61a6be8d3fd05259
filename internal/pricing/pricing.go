// Package pricing computes per-duration price previews for the booking form.
//
// The platform API delivers duration-price overrides in two historical key
// shapes ({"2h": 1200} and {"2": 1200}); both are normalised into a canonical
// integer-hours mapping at the boundary so the rest of the client never sees
// the raw shape.
package pricing

import (
	"strconv"
	"strings"
)

// DefaultUpperBoundHours is the default ceiling on how many consecutive
// hours the duration picker checks for feasibility.
const DefaultUpperBoundHours = 6

// Overrides maps a duration in whole hours to a fixed total price.
type Overrides map[int]float64

// NormalizeOverrides converts a raw JSON override object into canonical form.
// Keys may be "2", "2h" or "2H"; values any JSON number. Entries with
// unparsable keys, non-positive hours or non-numeric values are dropped.
func NormalizeOverrides(raw map[string]any) Overrides {
	if len(raw) == 0 {
		return nil
	}
	out := make(Overrides, len(raw))
	for key, val := range raw {
		hours, ok := parseHoursKey(key)
		if !ok {
			continue
		}
		price, ok := toFloat(val)
		if !ok {
			continue
		}
		out[hours] = price
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseHoursKey(key string) (int, bool) {
	key = strings.TrimSpace(strings.ToLower(key))
	key = strings.TrimSuffix(key, "h")
	hours, err := strconv.Atoi(key)
	if err != nil || hours <= 0 {
		return 0, false
	}
	return hours, true
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// PriceFor returns the total price for a duration: the override when one is
// configured, hourly rate times hours otherwise.
func PriceFor(hours int, hourlyRate float64, overrides Overrides) float64 {
	if hours <= 0 {
		return 0
	}
	if price, ok := overrides[hours]; ok {
		return price
	}
	return hourlyRate * float64(hours)
}

// UpperBound returns how many hours the feasibility check must cover: the
// default ceiling, extended by any longer configured duration option and any
// longer pricing override, so an 8-hour override is never silently excluded.
func UpperBound(options []int, overrides Overrides) int {
	bound := DefaultUpperBoundHours
	for _, opt := range options {
		if opt > bound {
			bound = opt
		}
	}
	for hours := range overrides {
		if hours > bound {
			bound = hours
		}
	}
	return bound
}
