package search

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxe-marketplace/internal/catalog"
	"luxe-marketplace/internal/models"
	"luxe-marketplace/internal/testutil"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name string
		in   catalog.FilterInput
		want string
	}{
		{
			name: "no constraints",
			in: catalog.FilterInput{
				Brand: catalog.AllBrands, PriceRange: catalog.AllPrices, Year: catalog.AllYears,
				FuelType: catalog.AllFuelTypes, City: catalog.AllCities,
			},
			want: "",
		},
		{
			name: "brand and year",
			in:   catalog.FilterInput{Brand: "BMW", Year: "2023"},
			want: `brand = "BMW" AND year = 2023`,
		},
		{
			name: "all supported fields",
			in:   catalog.FilterInput{Brand: "Mercedes-Benz", FuelType: "Diesel", Year: "2022", City: "Delhi"},
			want: `brand = "Mercedes-Benz" AND fuelType = "Diesel" AND year = 2022 AND id IN [2, 4]`,
		},
		{
			name: "partial city matches like the catalog",
			in:   catalog.FilterInput{City: "Mumb"},
			want: `id IN [1, 3]`,
		},
		{
			name: "city is case-sensitive",
			in:   catalog.FilterInput{City: "mumbai"},
			want: `id < 0`,
		},
		{
			name: "city matched after the comma",
			in:   catalog.FilterInput{City: "NCR"},
			want: `id IN [2, 4]`,
		},
		{
			name: "price range ignored",
			in:   catalog.FilterInput{PriceRange: "₹50L - ₹1Cr"},
			want: "",
		},
		{
			name: "non-numeric year quoted",
			in:   catalog.FilterInput{Year: "new"},
			want: `year = "new"`,
		},
		{
			name: "quotes escaped",
			in:   catalog.FilterInput{Brand: `Rolls "Royce"`},
			want: `brand = "Rolls \"Royce\""`,
		},
	}

	inventory := []models.Vehicle{
		testutil.NewVehicle(1, testutil.WithLocation("Mumbai, Maharashtra")),
		testutil.NewVehicle(2, testutil.WithLocation("Delhi, NCR")),
		testutil.NewVehicle(3, testutil.WithLocation("Navi Mumbai, Maharashtra")),
		testutil.NewVehicle(4, testutil.WithLocation("New Delhi, NCR")),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilter(catalog.ParseFilters(tt.in), inventory))
		})
	}
}

func TestToDocuments(t *testing.T) {
	docs := toDocuments([]models.Vehicle{
		testutil.NewVehicle(1, testutil.WithLocation("Delhi, NCR"), testutil.Liked()),
	})
	require.Len(t, docs, 1)
	assert.Equal(t, "Delhi", docs[0].City)
	assert.False(t, docs[0].IsLiked, "per-shopper state is not indexed")

	raw, err := json.Marshal(docs[0])
	require.NoError(t, err)
	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "Delhi", flat["city"])
	assert.Equal(t, "Petrol", flat["fuelType"])
	assert.EqualValues(t, 1, flat["id"])
}

func TestSearchClient_GetFacets(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/vehicles/search", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": [],
			"query": "",
			"processingTimeMs": 1,
			"limit": 0,
			"offset": 0,
			"estimatedTotalHits": 3,
			"facetDistribution": {"brand": {"BMW": 2, "Audi": 1}}
		}`))
	}))
	defer srv.Close()

	client := NewSearchClient(srv.URL, "", "")
	facets, err := client.GetFacets([]string{"brand"}, `fuelType = "Diesel"`)
	require.NoError(t, err)

	brands, ok := facets["brand"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, brands["BMW"])
	assert.Equal(t, `fuelType = "Diesel"`, body["filter"])
}
