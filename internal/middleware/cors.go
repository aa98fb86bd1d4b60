package middleware

import (
	"net/http" // HTTP status codes
	"strconv"  // Max-Age formatting
	"strings"  // Header joining

	"github.com/gin-gonic/gin" // Gin web framework
)

// CORSConfig holds CORS configuration options
type CORSConfig struct {
	AllowedOrigins   []string // Origins allowed to call the API
	AllowedMethods   []string // Methods returned on preflight
	AllowedHeaders   []string // Request headers returned on preflight
	AllowCredentials bool     // Whether cookies and auth headers are allowed
	MaxAge           int      // Preflight cache lifetime in seconds
}

// DefaultCORSConfig returns the settings the frontend needs for the given origins
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID", "Accept"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}
}

// CORS answers preflight requests and tags responses for allowed origins.
// Origins not in the list get no CORS headers, so browsers block them.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	allowAll := false
	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next() // Same-origin or non-browser request
			return
		}
		if !allowAll && !origins[origin] {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden) // Reject disallowed preflight
				return
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		if allowAll && !cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight
		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
