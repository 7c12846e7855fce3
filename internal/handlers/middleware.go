package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxe-marketplace/internal/ratelimit"
)

// RateLimitMiddleware enforces rl per client IP
func RateLimitMiddleware(rl *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
				"stats":   rl.GetStats(key),
			})
			return
		}
		c.Next()
	}
}
