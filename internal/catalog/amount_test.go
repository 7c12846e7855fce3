package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"₹45,50,000", 4550000, true},
		{"₹10,00,000", 1000000, true},
		{"25,000 km", 25000, true},
		{"12000", 12000, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"₹", 0, false},
	}

	for _, tt := range tests {
		got := ParseAmount(tt.raw)
		assert.Equal(t, tt.valid, got.Valid, "ParseAmount(%q).Valid", tt.raw)
		if tt.valid {
			assert.Equal(t, tt.want, got.Value, "ParseAmount(%q)", tt.raw)
		}
		assert.Equal(t, tt.want, got.OrZero(), "ParseAmount(%q).OrZero()", tt.raw)
	}
}

func TestParseLakhs(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"₹5L", 500000, true},
		{" ₹10L ", 1000000, true},
		{"₹25L", 2500000, true},
		{"₹1Cr", 10000000, true},
		{"₹1.5Cr", 15000000, true},
		{"50", 5000000, true},
		{"₹L", 0, false},
		{"lots", 0, false},
	}

	for _, tt := range tests {
		got := ParseLakhs(tt.raw)
		assert.Equal(t, tt.valid, got.Valid, "ParseLakhs(%q).Valid", tt.raw)
		if tt.valid {
			assert.Equal(t, tt.want, got.Value, "ParseLakhs(%q)", tt.raw)
		}
	}
}

func TestParsePriceRange(t *testing.T) {
	t.Run("closed range", func(t *testing.T) {
		r := ParsePriceRange("₹5L - ₹10L")
		assert.Equal(t, "₹5L - ₹10L", r.Raw)
		assert.True(t, r.Low.Valid)
		assert.Equal(t, float64(500000), r.Low.Value)
		require.NotNil(t, r.High)
		assert.Equal(t, float64(1000000), r.High.Value)
	})

	t.Run("open upper bound with plus on high", func(t *testing.T) {
		r := ParsePriceRange("₹50L - ₹1Cr+")
		assert.Equal(t, float64(5000000), r.Low.Value)
		assert.Nil(t, r.High)
	})

	t.Run("single bound with plus", func(t *testing.T) {
		r := ParsePriceRange("₹2Cr+")
		assert.Equal(t, float64(20000000), r.Low.Value)
		assert.Nil(t, r.High)
	})

	t.Run("malformed", func(t *testing.T) {
		r := ParsePriceRange("cheap - cheaper")
		assert.False(t, r.Low.Valid)
		require.NotNil(t, r.High)
		assert.False(t, r.High.Valid)
	})
}

func TestPriceRange_Contains(t *testing.T) {
	closed := ParsePriceRange("₹5L - ₹10L")
	open := ParsePriceRange("₹10L+")
	broken := ParsePriceRange("₹5L - whenever")

	tests := []struct {
		name  string
		r     PriceRange
		price Amount
		want  bool
	}{
		{"inside", closed, ParseAmount("₹7,50,000"), true},
		{"low bound inclusive", closed, ParseAmount("₹5,00,000"), true},
		{"high bound inclusive", closed, ParseAmount("₹10,00,000"), true},
		{"below", closed, ParseAmount("₹4,99,999"), false},
		{"above", closed, ParseAmount("₹10,00,001"), false},
		{"open above", open, ParseAmount("₹5,00,00,000"), true},
		{"open below low", open, ParseAmount("₹9,00,000"), false},
		{"invalid price", closed, ParseAmount("Price on request"), false},
		{"invalid high bound", broken, ParseAmount("₹6,00,000"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Contains(tt.price))
		})
	}
}
