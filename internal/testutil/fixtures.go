// Package testutil provides shared test helpers.
package testutil

import (
	"luxe-marketplace/internal/models"
)

// NewVehicle returns a Vehicle with sensible defaults, suitable for test fixtures.
// Override individual fields with options.
func NewVehicle(id int, opts ...func(*models.Vehicle)) models.Vehicle {
	v := models.Vehicle{
		ID:        id,
		Brand:     "Mercedes-Benz",
		Model:     "S-Class",
		Year:      2022,
		Price:     "₹45,50,000",
		Mileage:   "25,000 km",
		FuelType:  "Petrol",
		Location:  "Mumbai, Maharashtra",
		Condition: "Excellent",
		Features:  []string{"Sunroof", "Ambient Lighting"},
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// WithBrand sets the brand.
func WithBrand(brand string) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.Brand = brand }
}

// WithPrice sets the display price.
func WithPrice(price string) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.Price = price }
}

// WithYear sets the model year.
func WithYear(year int) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.Year = year }
}

// WithMileage sets the odometer string.
func WithMileage(mileage string) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.Mileage = mileage }
}

// WithFuel sets the fuel type.
func WithFuel(fuel string) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.FuelType = fuel }
}

// WithLocation sets the location.
func WithLocation(location string) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.Location = location }
}

// WithSavings sets the savings string.
func WithSavings(savings string) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.Savings = savings }
}

// WithViews sets the popularity counter.
func WithViews(views int) func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.Views = views }
}

// Liked marks the record as liked.
func Liked() func(*models.Vehicle) {
	return func(v *models.Vehicle) { v.IsLiked = true }
}

// IDs extracts the ids of vehicles in order.
func IDs(vehicles []models.Vehicle) []int {
	ids := make([]int, len(vehicles))
	for i := range vehicles {
		ids[i] = vehicles[i].ID
	}
	return ids
}
