package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/booking/internal/domain"
)

// respondError maps the recoverable domain error taxonomy to HTTP status
// codes. The draft is never discarded on an error; callers re-prompt.
func respondError(c *gin.Context, err error) {
	var (
		validation   *domain.ValidationError
		notFound     *domain.NotFoundError
		conflict     *domain.SeatConflictError
		unavailable  *domain.SeatUnavailableError
		inconsistent *domain.InconsistentStateError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict), errors.As(err, &unavailable), errors.As(err, &inconsistent):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
