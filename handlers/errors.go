package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotify/models"
	"slotify/utils"
)

// respondError maps core failure kinds onto protocol status codes.
// SlotFull and NotFound are expected outcomes, not system errors.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, models.ErrInvalidWindow),
		errors.Is(err, models.ErrInvalidCapacity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrServiceInactive),
		errors.Is(err, models.ErrSlotExpired):
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
	case errors.Is(err, models.ErrSlotFull):
		utils.JSONError(c, http.StatusConflict, "slot full", err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "invalid transition", err.Error())
	case errors.Is(err, models.ErrConcurrencyConflict):
		// Retryable: the persistence layer aborted the atomic section.
		utils.JSONError(c, http.StatusServiceUnavailable, "try again", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
