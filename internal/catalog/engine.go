// Package catalog derives the list a shopper sees from the raw inventory and
// keeps the shopper's transient picks (likes and the compare set).
package catalog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"luxe-marketplace/internal/metrics"
	"luxe-marketplace/internal/models"
)

// DefaultPriceRanges are the price buckets offered by the filter bar.
var DefaultPriceRanges = []string{
	"₹0L - ₹25L",
	"₹25L - ₹50L",
	"₹50L - ₹1Cr",
	"₹1Cr - ₹2Cr",
	"₹2Cr+",
}

// Options configures an Engine.
type Options struct {
	FeaturedOrder FeaturedOrder
}

// Engine filters and sorts vehicle lists. It holds no vehicle data and is
// safe to share.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	if opts.FeaturedOrder == "" {
		opts.FeaturedOrder = FeaturedNumeric
	}
	return &Engine{opts: opts}
}

// FeaturedOrder returns the configured featured comparison.
func (e *Engine) FeaturedOrder() FeaturedOrder {
	return e.opts.FeaturedOrder
}

// Filter returns the records of raw that match f, in their original order.
func (e *Engine) Filter(raw []models.Vehicle, f Filters) []models.Vehicle {
	result := make([]models.Vehicle, 0, len(raw))
	for i := range raw {
		if f.Match(&raw[i]) {
			result = append(result, raw[i].Clone())
		}
	}
	return result
}

// ComputeDisplayList filters raw with f and orders the survivors by key.
// raw is never modified and the result never shares a backing array with it.
func (e *Engine) ComputeDisplayList(raw []models.Vehicle, f Filters, key SortKey) []models.Vehicle {
	start := time.Now()

	filtered := e.Filter(raw, f)
	result := Sort(filtered, key, e.opts.FeaturedOrder)

	metrics.DisplayListComputed.WithLabelValues(string(key)).Inc()
	metrics.DisplayListDuration.Observe(time.Since(start).Seconds())
	metrics.DisplayListSize.Observe(float64(len(result)))

	return result
}

// FilterOptions lists the values the filter bar can offer for an inventory.
type FilterOptions struct {
	Brands      []string  `json:"brands"`
	PriceRanges []string  `json:"priceRanges"`
	Years       []string  `json:"years"`
	FuelTypes   []string  `json:"fuelTypes"`
	Cities      []string  `json:"cities"`
	SortKeys    []SortKey `json:"sortKeys"`
}

// FilterOptions collects distinct brands, fuel types, cities and years from
// raw. Each list starts with its sentinel.
func (e *Engine) FilterOptions(raw []models.Vehicle) FilterOptions {
	brands := map[string]struct{}{}
	fuels := map[string]struct{}{}
	cities := map[string]struct{}{}
	years := map[int]struct{}{}

	for i := range raw {
		v := &raw[i]
		if v.Brand != "" {
			brands[v.Brand] = struct{}{}
		}
		if v.FuelType != "" {
			fuels[v.FuelType] = struct{}{}
		}
		if city := CityOf(v.Location); city != "" {
			cities[city] = struct{}{}
		}
		if v.Year > 0 {
			years[v.Year] = struct{}{}
		}
	}

	yearList := make([]int, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(yearList)))
	yearStrings := make([]string, 0, len(yearList)+1)
	yearStrings = append(yearStrings, AllYears)
	for _, y := range yearList {
		yearStrings = append(yearStrings, strconv.Itoa(y))
	}

	return FilterOptions{
		Brands:      withSentinel(AllBrands, brands),
		PriceRanges: append([]string{AllPrices}, DefaultPriceRanges...),
		Years:       yearStrings,
		FuelTypes:   withSentinel(AllFuelTypes, fuels),
		Cities:      withSentinel(AllCities, cities),
		SortKeys:    SortKeys,
	}
}

// CityOf takes the part of a location before the first comma.
func CityOf(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

func withSentinel(sentinel string, set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{sentinel}, values...)
}
