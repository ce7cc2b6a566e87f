package usecase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/housemarket/browse-service/internal/entity"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

type TriState string

const (
	TriAny TriState = "any"
	TriYes TriState = "yes"
	TriNo  TriState = "no"
)

// FilterState carries the user-selected browse filters. Numeric fields hold
// raw form input: an empty or non-numeric string means the filter is unset,
// never zero.
type FilterState struct {
	Type      string // "all", "rent" or "sale"
	Search    string
	MinPrice  string
	MaxPrice  string
	MinBeds   string
	MinBaths  string
	Parking   TriState
	Furnished TriState
	Sort      SortOrder
}

func DefaultFilters() FilterState {
	return FilterState{
		Type:      "all",
		Parking:   TriAny,
		Furnished: TriAny,
		Sort:      SortNewest,
	}
}

// ApplyFilters derives the filtered, sorted view of listings. The input slice
// is never mutated; a fresh slice is returned even when every filter is at its
// default (the newest-first sort still applies). Sorting is stable, so
// listings with equal keys keep their store-provided relative order.
func ApplyFilters(listings []*entity.Listing, filters FilterState) []*entity.Listing {
	if len(listings) == 0 {
		return []*entity.Listing{}
	}

	result := make([]*entity.Listing, len(listings))
	copy(result, listings)

	if filters.Type == string(entity.ListingTypeRent) || filters.Type == string(entity.ListingTypeSale) {
		result = keep(result, func(l *entity.Listing) bool {
			return string(l.Type) == filters.Type
		})
	}

	if search := strings.ToLower(strings.TrimSpace(filters.Search)); search != "" {
		result = keep(result, func(l *entity.Listing) bool {
			return strings.Contains(strings.ToLower(l.Address), search) ||
				strings.Contains(strings.ToLower(l.Name), search)
		})
	}

	if min, ok := parseThreshold(filters.MinPrice); ok {
		result = keep(result, func(l *entity.Listing) bool {
			return l.EffectivePrice() >= min
		})
	}
	if max, ok := parseThreshold(filters.MaxPrice); ok {
		result = keep(result, func(l *entity.Listing) bool {
			return l.EffectivePrice() <= max
		})
	}

	if minBeds, ok := parseThreshold(filters.MinBeds); ok {
		result = keep(result, func(l *entity.Listing) bool {
			return float64(l.Bedrooms) >= minBeds
		})
	}
	if minBaths, ok := parseThreshold(filters.MinBaths); ok {
		result = keep(result, func(l *entity.Listing) bool {
			return float64(l.Bathrooms) >= minBaths
		})
	}

	switch filters.Parking {
	case TriYes:
		result = keep(result, func(l *entity.Listing) bool { return l.Parking })
	case TriNo:
		result = keep(result, func(l *entity.Listing) bool { return !l.Parking })
	}
	switch filters.Furnished {
	case TriYes:
		result = keep(result, func(l *entity.Listing) bool { return l.Furnished })
	case TriNo:
		result = keep(result, func(l *entity.Listing) bool { return !l.Furnished })
	}

	switch filters.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice() < result[j].EffectivePrice()
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice() > result[j].EffectivePrice()
		})
	default:
		// Newest first; a missing timestamp is the zero time and sinks to
		// the end.
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Timestamp.After(result[j].Timestamp)
		})
	}

	return result
}

func keep(listings []*entity.Listing, pred func(*entity.Listing) bool) []*entity.Listing {
	filtered := listings[:0]
	for _, l := range listings {
		if pred(l) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// parseThreshold coerces raw form input into a numeric threshold. Empty and
// non-numeric strings both mean "unset".
func parseThreshold(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
