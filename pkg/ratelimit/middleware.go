package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware applies the rate limiter to every request, classifying routes
// into budgets. Fails open when Redis is unavailable.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitType := classify(c.FullPath(), c.Request.URL.Path)

		result, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP(), limitType)
		if err != nil {
			// Rate limiting must never take the API down with it.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

func classify(fullPath, rawPath string) RateLimitType {
	path := fullPath
	if path == "" {
		path = rawPath
	}

	switch {
	case strings.Contains(path, "/integration"):
		return RateLimitTypePartner
	case strings.Contains(path, "/checkout"),
		strings.Contains(path, "/reservations"),
		strings.Contains(path, "/cart"):
		return RateLimitTypeBooking
	default:
		return RateLimitTypeDefault
	}
}
