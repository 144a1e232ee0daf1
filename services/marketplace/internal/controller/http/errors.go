package http

import (
	"errors"
	"net/http"

	"classifieds/pkg/logger"
	"classifieds/pkg/middleware"
	"classifieds/services/marketplace/internal/entity"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to status codes. Unknown errors are logged
// and hidden behind fallback.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
	case errors.Is(err, entity.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrStorageIO):
		log.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
	default:
		log.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// actorFrom reads the caller set by the auth middleware.
func actorFrom(c *gin.Context) entity.Actor {
	return entity.Actor{
		UserID: c.GetString(middleware.ContextUserID),
		Role:   entity.Role(c.GetString(middleware.ContextUserRole)),
	}
}
