package catalog

import (
	"sort"

	"luxe-marketplace/internal/models"
)

// SortKey names one of the storefront orderings.
type SortKey string

const (
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortYearNew    SortKey = "year-new"
	SortMileageLow SortKey = "mileage-low"
	SortPopular    SortKey = "popular"
	SortFeatured   SortKey = "featured"
)

// SortKeys lists every supported key, default last.
var SortKeys = []SortKey{SortPriceLow, SortPriceHigh, SortYearNew, SortMileageLow, SortPopular, SortFeatured}

// ParseSortKey maps a raw value to a SortKey; anything unknown is featured.
func ParseSortKey(s string) SortKey {
	for _, k := range SortKeys {
		if string(k) == s {
			return k
		}
	}
	return SortFeatured
}

// FeaturedOrder selects how the featured ordering compares savings.
type FeaturedOrder string

const (
	// FeaturedNumeric orders by savings magnitude, largest first.
	FeaturedNumeric FeaturedOrder = "numeric"
	// FeaturedLexical compares the savings digits as strings, largest first.
	// "900000" sorts above "1000000". Kept for parity with the legacy storefront.
	FeaturedLexical FeaturedOrder = "lexical"
)

// ParseFeaturedOrder defaults to numeric.
func ParseFeaturedOrder(s string) FeaturedOrder {
	if FeaturedOrder(s) == FeaturedLexical {
		return FeaturedLexical
	}
	return FeaturedNumeric
}

// sortEntry carries the parsed sort key next to the record so each string is
// parsed once per sort.
type sortEntry struct {
	vehicle models.Vehicle
	num     float64
	text    string
}

// Sort returns a new slice holding vehicles in the order named by key.
// Every ordering is stable.
func Sort(vehicles []models.Vehicle, key SortKey, featured FeaturedOrder) []models.Vehicle {
	entries := make([]sortEntry, len(vehicles))
	for i := range vehicles {
		entries[i] = sortEntry{vehicle: vehicles[i]}
	}

	var less func(a, b *sortEntry) bool
	switch key {
	case SortPriceLow:
		fill(entries, func(v *models.Vehicle) float64 { return ParseAmount(v.Price).OrZero() })
		less = func(a, b *sortEntry) bool { return a.num < b.num }
	case SortPriceHigh:
		fill(entries, func(v *models.Vehicle) float64 { return ParseAmount(v.Price).OrZero() })
		less = func(a, b *sortEntry) bool { return a.num > b.num }
	case SortYearNew:
		fill(entries, func(v *models.Vehicle) float64 { return float64(v.Year) })
		less = func(a, b *sortEntry) bool { return a.num > b.num }
	case SortMileageLow:
		fill(entries, func(v *models.Vehicle) float64 { return ParseAmount(v.Mileage).OrZero() })
		less = func(a, b *sortEntry) bool { return a.num < b.num }
	case SortPopular:
		fill(entries, func(v *models.Vehicle) float64 { return float64(v.Views) })
		less = func(a, b *sortEntry) bool { return a.num > b.num }
	default:
		if featured == FeaturedLexical {
			for i := range entries {
				entries[i].text = digitsOf(entries[i].vehicle.Savings)
			}
			less = func(a, b *sortEntry) bool { return a.text > b.text }
		} else {
			fill(entries, func(v *models.Vehicle) float64 { return ParseAmount(v.Savings).OrZero() })
			less = func(a, b *sortEntry) bool { return a.num > b.num }
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(&entries[i], &entries[j])
	})

	out := make([]models.Vehicle, len(entries))
	for i := range entries {
		out[i] = entries[i].vehicle
	}
	return out
}

func fill(entries []sortEntry, key func(v *models.Vehicle) float64) {
	for i := range entries {
		entries[i].num = key(&entries[i].vehicle)
	}
}
