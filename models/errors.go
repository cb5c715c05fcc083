package models

import "errors"

// Failure kinds returned by the reservation core. Callers match with
// errors.Is; the transport layer maps them to protocol status codes.
var (
	// ErrNotFound covers unknown slots, bookings and services.
	ErrNotFound = errors.New("not found")

	// ErrInvalidWindow is returned when a slot is created with start >= end.
	ErrInvalidWindow = errors.New("slot start must be before end")

	// ErrInvalidCapacity is returned when a slot is created with capacity < 1.
	ErrInvalidCapacity = errors.New("slot capacity must be at least 1")

	// ErrInvalidPrice is returned when a service is created with a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")

	// ErrServiceInactive is returned when reserving a slot of a service
	// that is no longer accepting bookings.
	ErrServiceInactive = errors.New("service is not accepting bookings")

	// ErrSlotExpired is returned when reserving a slot whose start time
	// has already passed.
	ErrSlotExpired = errors.New("slot start time has passed")

	// ErrSlotFull means capacity was exhausted at confirmation time.
	// Recoverable: the caller may pick another slot.
	ErrSlotFull = errors.New("slot is fully booked")

	// ErrInvalidTransition signals a booking state machine violation,
	// such as cancelling an already-cancelled booking.
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// ErrConcurrencyConflict means the persistence layer aborted the
	// atomic section; the caller should retry the whole operation.
	ErrConcurrencyConflict = errors.New("concurrent reservation conflict")

	// ErrInvalidRating is returned when a rating score is outside bounds.
	ErrInvalidRating = errors.New("rating score out of range")
)
