package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	bookingRepo "slotify/database/repository/booking"
	"slotify/handlers"
	"slotify/middleware"
	"slotify/models"
)

// stubCoordinator returns canned results per call.
type stubCoordinator struct {
	booking    *models.Booking
	err        error
	lastFilter bookingRepo.Filter
}

func (s *stubCoordinator) Reserve(ctx context.Context, slotID, requesterID string) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubCoordinator) CancelReservation(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubCoordinator) ExpirePending(ctx context.Context, bookingID string) error {
	return s.err
}

func (s *stubCoordinator) ListBookings(ctx context.Context, filter bookingRepo.Filter) ([]models.Booking, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return []models.Booking{}, nil
}

// asUser injects a requester id the way RequireAuth does after verification.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.RequesterIDKey, id)
		c.Next()
	}
}

func bookingRouter(coord *stubCoordinator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewBookingHandler(coord, zap.NewNop())
	r := gin.New()
	r.Use(asUser("user-1"))
	r.POST("/api/slots/:id/reserve", h.Reserve)
	r.POST("/api/bookings/:id/cancel", h.Cancel)
	r.GET("/api/bookings", h.List)
	return r
}

func TestReserveEndpoint_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"confirmed", nil, http.StatusCreated},
		{"unknown slot", models.ErrNotFound, http.StatusNotFound},
		{"slot full", models.ErrSlotFull, http.StatusConflict},
		{"aborted txn", models.ErrConcurrencyConflict, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coord := &stubCoordinator{err: tc.err}
			if tc.err == nil {
				coord.booking = &models.Booking{ID: "b-1", SlotID: "slot-1", Status: models.BookingConfirmed}
			}
			r := bookingRouter(coord)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/slots/slot-1/reserve", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestCancelEndpoint_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"cancelled", nil, http.StatusOK},
		{"unknown booking", models.ErrNotFound, http.StatusNotFound},
		{"already cancelled", models.ErrInvalidTransition, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coord := &stubCoordinator{err: tc.err}
			if tc.err == nil {
				coord.booking = &models.Booking{ID: "b-1", Status: models.BookingCancelled}
			}
			r := bookingRouter(coord)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/bookings/b-1/cancel", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestListEndpoint_ForcesRequesterScope(t *testing.T) {
	coord := &stubCoordinator{}
	r := bookingRouter(coord)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings?service=svc-1&status=confirmed&upcoming=true", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", coord.lastFilter.RequesterID)
	assert.Equal(t, "svc-1", coord.lastFilter.ServiceID)
	assert.Equal(t, models.BookingConfirmed, coord.lastFilter.Status)
	assert.WithinDuration(t, time.Now(), coord.lastFilter.From, 5*time.Second)
}
