package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once the limiter runs dry.
// One limiter is shared by every peer, the server only expects one.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() { // Allow consumes a token; tokens refill over time
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many snapshots, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
