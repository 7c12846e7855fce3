package search

import (
	"github.com/meilisearch/meilisearch-go"

	"luxe-marketplace/internal/catalog"
	"luxe-marketplace/internal/models"
)

// FacetAttributes are the fields the storefront shows counts for.
var FacetAttributes = []string{"brand", "fuelType", "year", "city"}

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey, index string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	if index == "" {
		index = "vehicles"
	}

	return &SearchClient{
		client: client,
		index:  index,
	}
}

// vehicleDocument is the indexed form of a vehicle: the record plus the
// derived city facet.
type vehicleDocument struct {
	models.Vehicle
	City string `json:"city"`
}

func toDocuments(vehicles []models.Vehicle) []vehicleDocument {
	docs := make([]vehicleDocument, len(vehicles))
	for i := range vehicles {
		v := vehicles[i]
		v.IsLiked = false
		docs[i] = vehicleDocument{Vehicle: v, City: catalog.CityOf(v.Location)}
	}
	return docs
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"brand",
		"model",
		"location",
		"features",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"brand",
		"fuelType",
		"year",
		"city",
		"location",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"year",
		"views",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexVehicles replaces the indexed documents with vehicles
func (s *SearchClient) IndexVehicles(vehicles []models.Vehicle) error {
	index := s.client.Index(s.index)
	if _, err := index.DeleteAllDocuments(); err != nil {
		return err
	}
	if len(vehicles) == 0 {
		return nil
	}
	_, err := index.AddDocuments(toDocuments(vehicles), "id")
	return err
}

// GetFacets retrieves facet distribution for the given fields, narrowed by
// filter (a Meilisearch filter expression, may be empty)
func (s *SearchClient) GetFacets(facets []string, filter string) (map[string]interface{}, error) {
	if len(facets) == 0 {
		facets = FacetAttributes
	}
	req := &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	}
	if filter != "" {
		req.Filter = filter
	}

	searchRes, err := s.client.Index(s.index).Search("", req)
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
