package workflow

import "strings"

// Stats summarises a collection for the dashboard overview.
type Stats struct {
	TotalRecords int `json:"totalRecords"`
	PriceMatch   int `json:"priceMatch"`
	RevertToBase int `json:"revertToBase"`
	Comparable   int `json:"comparable"`
	UnderSpec    int `json:"underSpec"`
	OverSpec     int `json:"overSpec"`
}

var (
	recommendationFields = []string{"pricing_recommendation", "price_recommendation", "Price Action", "Status"}
	positioningFields    = []string{"positioning", "Spec Check"}
)

// AggregateStats counts pricing recommendations and spec positioning.
// Matching is case-insensitive and by substring; the first non-empty field
// of each group is used.
func AggregateStats(records Collection) Stats {
	stats := Stats{TotalRecords: len(records)}
	for _, rec := range records {
		if rec == nil {
			continue
		}

		if action := strings.ToLower(firstNonEmpty(rec, recommendationFields)); action != "" {
			if strings.Contains(action, "price match") {
				stats.PriceMatch++
			}
			if strings.Contains(action, "revert to base") {
				stats.RevertToBase++
			}
		}

		if pos := strings.ToLower(firstNonEmpty(rec, positioningFields)); pos != "" {
			if strings.Contains(pos, "comparable") {
				stats.Comparable++
			}
			if containsAny(pos, "under-spec", "underspec", "under spec") {
				stats.UnderSpec++
			}
			if containsAny(pos, "over-spec", "overspec", "over spec") {
				stats.OverSpec++
			}
		}
	}
	return stats
}

func firstNonEmpty(rec Record, fields []string) string {
	for _, f := range fields {
		if v := rec.String(f); v != "" {
			return v
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
