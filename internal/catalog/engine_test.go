package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxe-marketplace/internal/models"
	"luxe-marketplace/internal/testutil"
)

func inventoryFixture() []models.Vehicle {
	return []models.Vehicle{
		testutil.NewVehicle(1, testutil.WithBrand("BMW"), testutil.WithPrice("₹72,00,000"),
			testutil.WithYear(2022), testutil.WithFuel("Diesel"), testutil.WithLocation("Mumbai, Maharashtra"),
			testutil.WithViews(340), testutil.WithSavings("₹6,00,000")),
		testutil.NewVehicle(2, testutil.WithBrand("Audi"), testutil.WithPrice("₹58,50,000"),
			testutil.WithYear(2021), testutil.WithFuel("Petrol"), testutil.WithLocation("Delhi, NCR"),
			testutil.WithViews(120)),
		testutil.NewVehicle(3, testutil.WithBrand("Porsche"), testutil.WithPrice("₹1,65,00,000"),
			testutil.WithYear(2023), testutil.WithFuel("Petrol"), testutil.WithLocation("Mumbai, Maharashtra"),
			testutil.WithViews(890), testutil.WithSavings("₹12,00,000")),
		testutil.NewVehicle(4, testutil.WithBrand("BMW"), testutil.WithPrice("Price on request"),
			testutil.WithYear(2023), testutil.WithFuel("Electric"), testutil.WithLocation("Bengaluru, Karnataka")),
		testutil.NewVehicle(5, testutil.WithBrand("Mercedes-Benz"), testutil.WithPrice("₹95,00,000"),
			testutil.WithYear(2022), testutil.WithFuel("Diesel"), testutil.WithLocation("Delhi, NCR"),
			testutil.WithViews(340), testutil.WithSavings("₹6,00,000")),
	}
}

func TestEngine_ComputeDisplayList_Scenarios(t *testing.T) {
	engine := NewEngine(Options{})
	raw := []models.Vehicle{
		testutil.NewVehicle(1, testutil.WithPrice("₹10,00,000")),
		testutil.NewVehicle(2, testutil.WithPrice("₹5,00,000")),
		testutil.NewVehicle(3, testutil.WithPrice("₹20,00,000")),
	}

	got := engine.ComputeDisplayList(raw, ParseFilters(allSentinels()), SortPriceLow)
	assert.Equal(t, []int{2, 1, 3}, testutil.IDs(got))

	filtered := engine.Filter(raw, ParseFilters(FilterInput{PriceRange: "₹5L - ₹10L"}))
	assert.Equal(t, []int{1, 2}, testutil.IDs(filtered))
}

func TestEngine_ComputeDisplayList_Subset(t *testing.T) {
	engine := NewEngine(Options{})
	raw := inventoryFixture()

	filters := []FilterInput{
		allSentinels(),
		{Brand: "BMW"},
		{City: "Mumbai"},
		{FuelType: "Petrol", Year: "2023"},
		{PriceRange: "₹50L - ₹1Cr"},
		{PriceRange: "₹2Cr+"},
	}

	rawIDs := map[int]bool{}
	for i := range raw {
		rawIDs[raw[i].ID] = true
	}

	for _, in := range filters {
		for _, key := range SortKeys {
			got := engine.ComputeDisplayList(raw, ParseFilters(in), key)
			seen := map[int]bool{}
			for i := range got {
				assert.True(t, rawIDs[got[i].ID], "fabricated record %d", got[i].ID)
				assert.False(t, seen[got[i].ID], "duplicated record %d", got[i].ID)
				seen[got[i].ID] = true
			}
			assert.LessOrEqual(t, len(got), len(raw))
		}
	}
}

func TestEngine_Filter_PreservesOrder(t *testing.T) {
	engine := NewEngine(Options{})
	raw := inventoryFixture()

	got := engine.Filter(raw, ParseFilters(FilterInput{FuelType: "Diesel"}))
	assert.Equal(t, []int{1, 5}, testutil.IDs(got))

	got = engine.Filter(raw, ParseFilters(FilterInput{City: "Mumbai"}))
	assert.Equal(t, []int{1, 3}, testutil.IDs(got))
}

func TestEngine_ComputeDisplayList_DoesNotMutateInput(t *testing.T) {
	engine := NewEngine(Options{})
	raw := inventoryFixture()
	before := inventoryFixture()

	got := engine.ComputeDisplayList(raw, ParseFilters(FilterInput{Brand: "BMW"}), SortPriceHigh)
	require.NotEmpty(t, got)
	got[0].Brand = "Tampered"
	got[0].Features[0] = "Tampered"

	assert.Equal(t, before, raw)
}

func TestEngine_ComputeDisplayList_Combined(t *testing.T) {
	engine := NewEngine(Options{})
	raw := inventoryFixture()

	got := engine.ComputeDisplayList(raw, ParseFilters(FilterInput{Brand: "BMW"}), SortPriceLow)
	assert.Equal(t, []int{4, 1}, testutil.IDs(got), "unparseable price sorts as zero")

	got = engine.ComputeDisplayList(raw, ParseFilters(FilterInput{PriceRange: "₹50L - ₹1Cr"}), SortPopular)
	assert.Equal(t, []int{1, 5, 2}, testutil.IDs(got))

	got = engine.ComputeDisplayList(raw, Filters{}, SortFeatured)
	assert.Equal(t, []int{3, 1, 5, 2, 4}, testutil.IDs(got))
}

func TestEngine_FeaturedOrderOption(t *testing.T) {
	assert.Equal(t, FeaturedNumeric, NewEngine(Options{}).FeaturedOrder())
	assert.Equal(t, FeaturedLexical, NewEngine(Options{FeaturedOrder: FeaturedLexical}).FeaturedOrder())

	raw := []models.Vehicle{
		testutil.NewVehicle(1, testutil.WithSavings("₹10,00,000")),
		testutil.NewVehicle(2, testutil.WithSavings("₹9,00,000")),
	}
	lexical := NewEngine(Options{FeaturedOrder: FeaturedLexical})
	assert.Equal(t, []int{2, 1}, testutil.IDs(lexical.ComputeDisplayList(raw, Filters{}, SortFeatured)))
}

func TestEngine_FilterOptions(t *testing.T) {
	engine := NewEngine(Options{})
	opts := engine.FilterOptions(inventoryFixture())

	assert.Equal(t, []string{AllBrands, "Audi", "BMW", "Mercedes-Benz", "Porsche"}, opts.Brands)
	assert.Equal(t, []string{AllFuelTypes, "Diesel", "Electric", "Petrol"}, opts.FuelTypes)
	assert.Equal(t, []string{AllCities, "Bengaluru", "Delhi", "Mumbai"}, opts.Cities)
	assert.Equal(t, []string{AllYears, "2023", "2022", "2021"}, opts.Years)
	assert.Equal(t, AllPrices, opts.PriceRanges[0])
	assert.Len(t, opts.PriceRanges, len(DefaultPriceRanges)+1)
	assert.Equal(t, SortKeys, opts.SortKeys)
}

func TestEngine_FilterOptions_Empty(t *testing.T) {
	opts := NewEngine(Options{}).FilterOptions(nil)
	assert.Equal(t, []string{AllBrands}, opts.Brands)
	assert.Equal(t, []string{AllYears}, opts.Years)
}
