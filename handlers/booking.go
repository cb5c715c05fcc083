package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingRepo "slotify/database/repository/booking"
	"slotify/middleware"
	"slotify/models"
	"slotify/services/reservation"
)

// BookingHandler maps transport requests onto the reservation coordinator.
type BookingHandler struct {
	Coordinator reservation.Coordinator
	Logger      *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(coordinator reservation.Coordinator, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Coordinator: coordinator, Logger: logger}
}

// Reserve confirms one unit of the slot for the authenticated requester.
func (h *BookingHandler) Reserve(c *gin.Context) {
	slotID := c.Param("id")
	requesterID := middleware.RequesterID(c)

	booking, err := h.Coordinator.Reserve(c.Request.Context(), slotID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Cancel cancels a booking owned by the requester.
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := h.Coordinator.CancelReservation(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// List returns the requester's bookings, optionally filtered by service,
// status and upcoming-only.
func (h *BookingHandler) List(c *gin.Context) {
	filter := bookingRepo.Filter{
		RequesterID: middleware.RequesterID(c),
		ServiceID:   c.Query("service"),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = models.BookingStatus(status)
	}
	if upcoming := c.Query("upcoming"); upcoming == "1" || upcoming == "true" {
		filter.From = time.Now()
	}

	bookings, err := h.Coordinator.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
