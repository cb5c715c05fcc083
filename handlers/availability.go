package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotify/services/availability"
)

// AvailabilityHandler serves the cached availability and rating views.
type AvailabilityHandler struct {
	Cache  *availability.Cache
	Logger *zap.Logger
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(cache *availability.Cache, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Cache: cache, Logger: logger}
}

// GetAvailability answers whether the slot has remaining capacity.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	slotID := c.Param("id")

	available, err := h.Cache.GetAvailability(c.Request.Context(), slotID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slotId": slotID, "available": available})
}

// GetAverageRating answers with the cached mean rating for a service.
func (h *AvailabilityHandler) GetAverageRating(c *gin.Context) {
	serviceID := c.Param("id")

	avg, err := h.Cache.GetAverageRating(c.Request.Context(), serviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"serviceId": serviceID, "averageRating": avg})
}
