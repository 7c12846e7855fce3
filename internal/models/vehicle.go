package models

import "time"

// Vehicle is one inventory item as delivered by the inventory API.
// Price, savings and mileage stay in their display form; numeric work happens
// in the catalog package after parsing.
type Vehicle struct {
	// Identity
	ID    int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Brand string `gorm:"type:varchar(100);index" json:"brand"`
	Model string `gorm:"type:varchar(100)" json:"model"`
	Year  int    `gorm:"type:int;index" json:"year"`

	// Pricing (currency-formatted strings, e.g. "₹45,50,000")
	Price         string `gorm:"type:varchar(50)" json:"price"`
	OriginalPrice string `gorm:"type:varchar(50)" json:"originalPrice,omitempty"`
	Savings       string `gorm:"type:varchar(50)" json:"savings,omitempty"`

	// Attributes used for filtering
	Mileage   string `gorm:"type:varchar(50)" json:"mileage"`
	FuelType  string `gorm:"type:varchar(50);index" json:"fuelType"`
	Location  string `gorm:"type:varchar(255)" json:"location"`
	Condition string `gorm:"type:varchar(50)" json:"condition"`

	// Display only
	Features []string `gorm:"serializer:json;type:text" json:"features"`
	Image    string   `gorm:"type:text" json:"image,omitempty"`

	// Selection mirror and popularity
	IsLiked bool `gorm:"-" json:"isLiked"`
	Views   int  `gorm:"type:int;default:0" json:"views"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}

// DisplayName returns "Brand Model", used in log lines and compare headers.
func (v *Vehicle) DisplayName() string {
	if v.Model == "" {
		return v.Brand
	}
	if v.Brand == "" {
		return v.Model
	}
	return v.Brand + " " + v.Model
}

// Clone returns a copy that does not share the Features backing array.
func (v Vehicle) Clone() Vehicle {
	if v.Features != nil {
		features := make([]string, len(v.Features))
		copy(features, v.Features)
		v.Features = features
	}
	return v
}
