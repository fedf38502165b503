package handlers

import (
	"errors"
	"log"
	"net/http"
	"ventlink/internal/services"
	"ventlink/internal/utils"

	"github.com/gin-gonic/gin"
)

// AbortError maps service errors onto the JSON error envelope.
func AbortError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
	default:
		// Conflict-class and unexpected errors are logged and surfaced as a
		// generic failure.
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// InvalidInput rejects a request with a field-specific message.
func InvalidInput(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// parseIDParam reads the :id path param; rejects the request itself on
// malformed input.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, ok := utils.ParseUint(c.Param("id"))
	if !ok {
		InvalidInput(c, "malformed id")
		return 0, false
	}
	return id, true
}
