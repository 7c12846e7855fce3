package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"luxe-marketplace/internal/catalog"
	"luxe-marketplace/internal/database"
	"luxe-marketplace/internal/inventory"
	"luxe-marketplace/internal/models"
	"luxe-marketplace/internal/search"
)

// FacetSource answers facet-count queries. *search.SearchClient implements it.
type FacetSource interface {
	GetFacets(facets []string, filter string) (map[string]interface{}, error)
}

// VehicleLookup reads a single vehicle from persistent storage. Both
// database repositories implement it and answer database.ErrNotFound.
type VehicleLookup interface {
	GetVehicleByID(ctx context.Context, id int) (*models.Vehicle, error)
}

// CatalogHandler serves the stateless catalog endpoints over the inventory snapshot
type CatalogHandler struct {
	engine   *catalog.Engine
	snapshot *inventory.Snapshot
	facets   FacetSource
	lookup   VehicleLookup
	logger   *zap.Logger
}

// NewCatalogHandler creates a catalog handler. facets may be nil when search is disabled.
func NewCatalogHandler(engine *catalog.Engine, snapshot *inventory.Snapshot, facets FacetSource, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		engine:   engine,
		snapshot: snapshot,
		facets:   facets,
		logger:   logger.With(zap.String("component", "catalog_api")),
	}
}

// WithRepository makes GetVehicle fall back to storage for ids missing from
// the snapshot, e.g. before the first sync has finished.
func (h *CatalogHandler) WithRepository(lookup VehicleLookup) *CatalogHandler {
	h.lookup = lookup
	return h
}

// Health reports liveness and inventory freshness
func (h *CatalogHandler) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "ok",
		"time":     time.Now(),
		"vehicles": h.snapshot.Len(),
	}
	if updated := h.snapshot.UpdatedAt(); !updated.IsZero() {
		resp["inventoryUpdatedAt"] = updated
	}
	c.JSON(http.StatusOK, resp)
}

// ListVehicles filters and sorts the current inventory from query parameters
func (h *CatalogHandler) ListVehicles(c *gin.Context) {
	var in catalog.FilterInput
	if err := c.ShouldBindQuery(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filters := catalog.ParseFilters(in)
	sortKey := catalog.ParseSortKey(c.Query("sort"))

	vehicles := h.engine.ComputeDisplayList(h.snapshot.Vehicles(), filters, sortKey)
	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"count":    len(vehicles),
		"filters":  filters.Input(),
		"sortKey":  sortKey,
	})
}

// GetVehicle returns one vehicle by id
func (h *CatalogHandler) GetVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if v, found := h.snapshot.Vehicle(id); found {
		c.JSON(http.StatusOK, v)
		return
	}
	if h.lookup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrVehicleNotFound.Error()})
		return
	}

	v, err := h.lookup.GetVehicleByID(c.Request.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrVehicleNotFound.Error()})
	case err != nil:
		h.logger.Error("vehicle lookup failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vehicle"})
	default:
		c.JSON(http.StatusOK, v)
	}
}

// GetFilterOptions returns the filter bar dropdown values
func (h *CatalogHandler) GetFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.FilterOptions(h.snapshot.Vehicles()))
}

// GetSearchFacets retrieves facet distributions, optionally narrowed by the
// same query parameters as ListVehicles
func (h *CatalogHandler) GetSearchFacets(c *gin.Context) {
	if h.facets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	var facets []string
	if raw := c.Query("facets"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				facets = append(facets, f)
			}
		}
	}

	var in catalog.FilterInput
	if err := c.ShouldBindQuery(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facetDist, err := h.facets.GetFacets(facets, search.BuildFilter(catalog.ParseFilters(in), h.snapshot.Vehicles()))
	if err != nil {
		h.logger.Error("facet query failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facets": facetDist,
	})
}

// parseID reads an integer path parameter, answering 400 on bad syntax.
func parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
