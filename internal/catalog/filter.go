package catalog

import (
	"strconv"
	"strings"

	"luxe-marketplace/internal/models"
)

// Sentinel values the storefront sends for "no constraint".
const (
	AllBrands    = "All Brands"
	AllPrices    = "All Prices"
	AllYears     = "All Years"
	AllFuelTypes = "All Fuel Types"
	AllCities    = "All Cities"
)

// FilterInput is the wire form of the filter bar: five strings, each either a
// sentinel or a concrete value.
type FilterInput struct {
	Brand      string `json:"brand" form:"brand"`
	PriceRange string `json:"priceRange" form:"priceRange"`
	Year       string `json:"year" form:"year"`
	FuelType   string `json:"fuelType" form:"fuelType"`
	City       string `json:"city" form:"city"`
}

// Filters is the current query state. A nil field applies no constraint.
type Filters struct {
	Brand      *string
	PriceRange *PriceRange
	Year       *string
	FuelType   *string
	City       *string
}

// ParseFilters converts the wire form, mapping sentinels and blanks to nil.
func ParseFilters(in FilterInput) Filters {
	var f Filters
	f.Brand = constraint(in.Brand, AllBrands)
	f.Year = constraint(in.Year, AllYears)
	f.FuelType = constraint(in.FuelType, AllFuelTypes)
	f.City = constraint(in.City, AllCities)
	if raw := constraint(in.PriceRange, AllPrices); raw != nil {
		pr := ParsePriceRange(*raw)
		f.PriceRange = &pr
	}
	return f
}

func constraint(value, sentinel string) *string {
	if value == "" || value == sentinel {
		return nil
	}
	return &value
}

// Input returns the wire form, with sentinels for unconstrained fields.
func (f Filters) Input() FilterInput {
	in := FilterInput{
		Brand:      valueOr(f.Brand, AllBrands),
		Year:       valueOr(f.Year, AllYears),
		FuelType:   valueOr(f.FuelType, AllFuelTypes),
		City:       valueOr(f.City, AllCities),
		PriceRange: AllPrices,
	}
	if f.PriceRange != nil {
		in.PriceRange = f.PriceRange.Raw
	}
	return in
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// IsZero reports whether no field is constrained.
func (f Filters) IsZero() bool {
	return f.Brand == nil && f.PriceRange == nil && f.Year == nil && f.FuelType == nil && f.City == nil
}

// Key is a canonical string for the filter state, used for memoization.
func (f Filters) Key() string {
	in := f.Input()
	return strings.Join([]string{in.Brand, in.PriceRange, in.Year, in.FuelType, in.City}, "\x1f")
}

// Match reports whether v satisfies every active constraint.
func (f Filters) Match(v *models.Vehicle) bool {
	if f.Brand != nil && v.Brand != *f.Brand {
		return false
	}
	if f.FuelType != nil && v.FuelType != *f.FuelType {
		return false
	}
	if f.Year != nil && strconv.Itoa(v.Year) != *f.Year {
		return false
	}
	// Case-sensitive on purpose: "Mumbai" does not match "mumbai, MH".
	if f.City != nil && !strings.Contains(v.Location, *f.City) {
		return false
	}
	if f.PriceRange != nil && !f.PriceRange.Contains(ParseAmount(v.Price)) {
		return false
	}
	return true
}
