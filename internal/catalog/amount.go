package catalog

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	lakh  = 100000
	crore = 100 * lakh
)

// Amount is a parsed numeric magnitude. Valid is false when the source string
// carried no digits at all, which is how a malformed value is represented.
type Amount struct {
	Value float64
	Valid bool
}

// NaN returns the invalid amount.
func NaN() Amount {
	return Amount{Value: math.NaN()}
}

// OrZero returns the value, or 0 for an invalid amount. Sorting uses this so
// corrupt records still take part in every ordering.
func (a Amount) OrZero() float64 {
	if !a.Valid {
		return 0
	}
	return a.Value
}

// ParseAmount parses a display string such as "₹45,50,000" or "25,000 km" by
// stripping every non-digit character.
func ParseAmount(s string) Amount {
	digits := digitsOf(s)
	if digits == "" {
		return NaN()
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return NaN()
	}
	return Amount{Value: v, Valid: true}
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ParseLakhs parses a price-range bound like "₹5L" or "₹1.5Cr" into rupees.
// Bounds are in lakhs unless they carry a crore unit.
func ParseLakhs(s string) Amount {
	s = strings.TrimSpace(s)
	multiplier := float64(lakh)
	if strings.Contains(strings.ToLower(s), "cr") {
		multiplier = crore
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return NaN()
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return NaN()
	}
	return Amount{Value: v * multiplier, Valid: true}
}

// PriceRange is an inclusive price window. High is nil for an open-ended
// range ("₹1Cr+").
type PriceRange struct {
	Raw  string
	Low  Amount
	High *Amount
}

// ParsePriceRange parses "<low> - <high>", "<low> - <high>+" or "<low>+".
// A trailing "+" or a missing upper part leaves the range unbounded above.
// Malformed bounds parse to invalid amounts, and Contains then rejects every
// price.
func ParsePriceRange(s string) PriceRange {
	r := PriceRange{Raw: s}
	trimmed := strings.TrimSpace(s)
	open := strings.HasSuffix(trimmed, "+")
	trimmed = strings.TrimSuffix(trimmed, "+")

	parts := strings.SplitN(trimmed, "-", 2)
	r.Low = ParseLakhs(parts[0])
	if len(parts) == 2 && !open {
		high := ParseLakhs(parts[1])
		r.High = &high
	}
	return r
}

// Contains reports whether price lies inside the range. Any invalid operand
// fails the check.
func (r PriceRange) Contains(price Amount) bool {
	if !price.Valid || !r.Low.Valid {
		return false
	}
	if price.Value < r.Low.Value {
		return false
	}
	if r.High == nil {
		return true
	}
	if !r.High.Valid {
		return false
	}
	return price.Value <= r.High.Value
}
