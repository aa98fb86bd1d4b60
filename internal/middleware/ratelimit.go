package middleware

import (
	"math"     // Rounding up Retry-After
	"net/http" // HTTP status codes
	"strconv"  // Header formatting

	"savings_tracker/internal/cache" // Redis-backed limiter

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RateLimit throttles requests per client IP using limiter.
// When Redis is unreachable the request is let through and the error logged.
func RateLimit(limiter *cache.Limiter, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey),
				"error":      err.Error(),
			}).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if res.Remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		}
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
			return
		}
		c.Next()
	}
}
