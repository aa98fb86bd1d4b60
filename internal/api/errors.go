package api

import (
	"errors"                              // Error matching
	"net/http"                            // HTTP status codes
	"savings_tracker/internal/domain"     // Error kinds
	"savings_tracker/internal/middleware" // Request ID key

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// writeError maps a domain error kind to a status code and writes {error: msg}.
// Anything that is not a domain error is logged and reported as a bare 500.
func writeError(c *gin.Context, err error, op string) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		c.JSON(statusFor(derr.Kind), gin.H{"error": derr.Message})
		return
	}
	logrus.WithFields(logrus.Fields{
		"op":         op,                                   // Failed operation
		"request_id": c.GetString(middleware.RequestIDKey), // Correlates with the access log
		"error":      err.Error(),                          // Internal detail, never sent to the client
	}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrValidation), errors.Is(kind, domain.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(kind, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
