package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"luxe-marketplace/internal/logger"
	"luxe-marketplace/internal/ratelimit"
)

// RouterConfig carries everything the router mounts. Limiter may be nil.
type RouterConfig struct {
	Catalog      *CatalogHandler
	Sessions     *SessionHandler
	Admin        *AdminHandler
	Limiter      *ratelimit.RateLimiter
	AllowOrigins []string
	Logger       *zap.Logger
}

// NewRouter builds the gin engine with every API route registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(cfg.Logger))

	// CORS configuration
	if len(cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{RateLimitMiddleware(cfg.Limiter), h}
	}

	r.GET("/health", cfg.Catalog.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/vehicles", cfg.Catalog.ListVehicles)
		api.GET("/vehicles/:id", cfg.Catalog.GetVehicle)
		api.GET("/filters/options", cfg.Catalog.GetFilterOptions)
		api.GET("/search/facets", cfg.Catalog.GetSearchFacets)
		api.GET("/ratelimit/stats", cfg.Admin.GetRateLimitStats)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", limited(cfg.Sessions.Create)...)
		sessions.GET("/:id", cfg.Sessions.Get)
		sessions.DELETE("/:id", cfg.Sessions.Delete)
		sessions.PUT("/:id/filters", limited(cfg.Sessions.SetFilters)...)
		sessions.PUT("/:id/sort", limited(cfg.Sessions.SetSort)...)
		sessions.POST("/:id/likes/:vehicleId", limited(cfg.Sessions.ToggleLike)...)
		sessions.POST("/:id/compare/:vehicleId", limited(cfg.Sessions.AddToCompare)...)
		sessions.DELETE("/:id/compare/:vehicleId", limited(cfg.Sessions.RemoveFromCompare)...)
		sessions.DELETE("/:id/compare", limited(cfg.Sessions.ClearCompare)...)
	}

	// Admin API routes (requires authentication in production)
	admin := api.Group("/admin")
	{
		admin.GET("/stats", cfg.Admin.GetStats)
		admin.POST("/inventory/refresh", limited(cfg.Admin.TriggerRefresh)...)
	}

	return r
}
