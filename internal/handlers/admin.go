package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"luxe-marketplace/internal/catalog"
	"luxe-marketplace/internal/cleanup"
	"luxe-marketplace/internal/inventory"
	"luxe-marketplace/internal/ratelimit"
)

// InventoryRefresher runs an inventory sync on demand. *scheduler.Scheduler implements it.
type InventoryRefresher interface {
	RunNow(ctx context.Context) (*inventory.SyncResult, error)
}

// AdminHandler handles admin-related requests
type AdminHandler struct {
	refresher InventoryRefresher
	syncer    *inventory.Syncer
	snapshot  *inventory.Snapshot
	sessions  *catalog.SessionManager
	sweeper   *cleanup.Service
	limiter   *ratelimit.RateLimiter
	logger    *zap.Logger
}

// NewAdminHandler creates a new admin handler. sweeper and limiter may be nil.
func NewAdminHandler(refresher InventoryRefresher, syncer *inventory.Syncer, snapshot *inventory.Snapshot,
	sessions *catalog.SessionManager, sweeper *cleanup.Service, limiter *ratelimit.RateLimiter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		syncer:    syncer,
		snapshot:  snapshot,
		sessions:  sessions,
		sweeper:   sweeper,
		limiter:   limiter,
		logger:    logger.With(zap.String("component", "admin_api")),
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	inv := map[string]interface{}{
		"vehicles": h.snapshot.Len(),
	}
	if updated := h.snapshot.UpdatedAt(); !updated.IsZero() {
		inv["updated_at"] = updated
	}
	if h.syncer != nil {
		if last := h.syncer.Last(); last != nil {
			inv["last_sync"] = last
		}
	}
	stats["inventory"] = inv

	stats["sessions"] = map[string]interface{}{
		"active": h.sessions.Count(),
	}
	if h.sweeper != nil {
		stats["cleanup"] = h.sweeper.GetStats()
	}

	c.JSON(http.StatusOK, stats)
}

// TriggerRefresh manually refreshes the inventory, bypassing the cache
func (h *AdminHandler) TriggerRefresh(c *gin.Context) {
	if h.refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Inventory refresh is not available",
		})
		return
	}

	h.logger.Info("manual inventory refresh requested", zap.String("client_ip", c.ClientIP()))

	result, err := h.refresher.RunNow(c.Request.Context())
	if errors.Is(err, inventory.ErrSyncInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory refreshed",
		"result":  result,
	})
}

// GetRateLimitStats returns rate limiter statistics for the calling client
func (h *AdminHandler) GetRateLimitStats(c *gin.Context) {
	if h.limiter == nil {
		c.JSON(http.StatusOK, ratelimit.Stats{Enabled: false})
		return
	}
	c.JSON(http.StatusOK, h.limiter.GetStats(c.ClientIP()))
}
