package search

import (
	"fmt"
	"strconv"
	"strings"

	"luxe-marketplace/internal/catalog"
	"luxe-marketplace/internal/models"
)

// BuildFilter translates catalog filters into a Meilisearch filter
// expression. Price ranges are not expressible on the indexed display
// strings and are left out.
//
// The catalog matches a city as a substring of the location, which the
// index cannot express, so the city is resolved against inventory into the
// ids of the matching records.
func BuildFilter(f catalog.Filters, inventory []models.Vehicle) string {
	var filters []string

	if f.Brand != nil {
		filters = append(filters, fmt.Sprintf("brand = %s", quote(*f.Brand)))
	}
	if f.FuelType != nil {
		filters = append(filters, fmt.Sprintf("fuelType = %s", quote(*f.FuelType)))
	}
	if f.Year != nil {
		if year, err := strconv.Atoi(*f.Year); err == nil {
			filters = append(filters, fmt.Sprintf("year = %d", year))
		} else {
			filters = append(filters, fmt.Sprintf("year = %s", quote(*f.Year)))
		}
	}
	if f.City != nil {
		filters = append(filters, cityClause(*f.City, inventory))
	}

	return strings.Join(filters, " AND ")
}

func cityClause(city string, inventory []models.Vehicle) string {
	byCity := catalog.Filters{City: &city}
	var ids []string
	for i := range inventory {
		if byCity.Match(&inventory[i]) {
			ids = append(ids, strconv.Itoa(inventory[i].ID))
		}
	}
	if len(ids) == 0 {
		// Vehicle ids are positive.
		return "id < 0"
	}
	return "id IN [" + strings.Join(ids, ", ") + "]"
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
