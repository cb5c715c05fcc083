package bookingRepo

import (
	"context"
	"time"

	"slotify/models"
)

// Filter narrows booking listings. Zero-valued fields are ignored.
type Filter struct {
	ServiceID   string
	RequesterID string
	Status      models.BookingStatus
	// From keeps only bookings whose slot starts at or after this instant.
	From time.Time
}

// BookingRepository is the booking ledger. It is the only component allowed
// to write booking rows; capacity correctness is guaranteed by Confirm being
// atomic with the confirmed-count check.
type BookingRepository interface {
	// CreatePending inserts a booking in pending state. It does not check
	// capacity; that happens at confirmation.
	CreatePending(ctx context.Context, booking *models.Booking) error

	GetByID(ctx context.Context, id string) (*models.Booking, error)

	// CountConfirmed reports the number of confirmed bookings for a slot.
	// Pending bookings never count.
	CountConfirmed(ctx context.Context, slotID string) (int, error)

	// Confirm transitions pending -> confirmed iff the confirmed count for
	// the slot is below capacity, evaluated atomically with the write.
	// Returns the confirmed count after the commit. Fails with
	// models.ErrSlotFull when at capacity (booking stays pending) and
	// models.ErrConcurrencyConflict on a transaction abort.
	Confirm(ctx context.Context, bookingID, slotID string, capacity int) (int, error)

	// Cancel transitions pending/confirmed -> cancelled and returns the
	// updated booking. Fails with models.ErrInvalidTransition when the
	// booking is already cancelled.
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)

	// CancelIfPending cancels the booking only if it is still pending.
	// Reports whether a transition happened. Used by the stale-pending reaper.
	CancelIfPending(ctx context.Context, bookingID string) (bool, error)

	List(ctx context.Context, filter Filter) ([]models.Booking, error)
}
