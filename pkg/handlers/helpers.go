package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockcast-api/pkg/services"
)

// statusForError maps engine errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientHistory),
		errors.Is(err, services.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrDataNotLoaded),
		errors.Is(err, services.ErrScorerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
