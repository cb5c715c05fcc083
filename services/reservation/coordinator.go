package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "slotify/database/repository/booking"
	slotRepo "slotify/database/repository/slot"
	"slotify/models"
)

// AvailabilityInvalidator is the slice of the cache the coordinator writes
// through. Invalidation never fails a reservation.
type AvailabilityInvalidator interface {
	InvalidateSlot(ctx context.Context, slotID string)
	MarkSlotFull(ctx context.Context, slotID string)
}

// ServiceSource is the slice of the service catalog the coordinator reads
// to reject reservations against withdrawn services.
type ServiceSource interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
}

// ReapScheduler schedules a deferred reap of a pending booking. Errors are
// tolerated; the reaper is a safety net, not part of the commit path.
// CancelReap drops the task once its booking reached a terminal state; a
// task that slips through is harmless since the reap handler only touches
// bookings still pending.
type ReapScheduler interface {
	ScheduleReap(bookingID string, delay time.Duration) error
	CancelReap(bookingID string) error
}

// Coordinator is the reservation façade. It is the only place where bookings
// become confirmed; nothing else may write confirmed rows.
type Coordinator interface {
	Reserve(ctx context.Context, slotID, requesterID string) (*models.Booking, error)
	CancelReservation(ctx context.Context, bookingID string) (*models.Booking, error)
	// ExpirePending cancels a booking abandoned in pending state; a no-op
	// when the booking was meanwhile confirmed or cancelled.
	ExpirePending(ctx context.Context, bookingID string) error
	ListBookings(ctx context.Context, filter bookingRepo.Filter) ([]models.Booking, error)
}

// DefaultCoordinator sequences slot lookup, conflict check, commit and cache
// invalidation under a per-slot exclusion token.
type DefaultCoordinator struct {
	Slots      slotRepo.SlotRepository
	Services   ServiceSource
	Ledger     bookingRepo.BookingRepository
	Cache      AvailabilityInvalidator
	Reaper     ReapScheduler
	PendingTTL time.Duration
	Logger     *zap.Logger

	locks *lockTable
}

// NewCoordinator wires a coordinator with a fresh lock table.
func NewCoordinator(slots slotRepo.SlotRepository, services ServiceSource, ledger bookingRepo.BookingRepository, cache AvailabilityInvalidator, reaper ReapScheduler, pendingTTL time.Duration, logger *zap.Logger) *DefaultCoordinator {
	return &DefaultCoordinator{
		Slots:      slots,
		Services:   services,
		Ledger:     ledger,
		Cache:      cache,
		Reaper:     reaper,
		PendingTTL: pendingTTL,
		Logger:     logger,
		locks:      newLockTable(),
	}
}

// Reserve confirms one capacity unit of the slot for the requester, or fails
// with models.ErrSlotFull / models.ErrNotFound. Slots that already started
// (ErrSlotExpired) and services withdrawn from booking (ErrServiceInactive)
// are rejected before any state change. For a fixed slot,
// confirmations are totally ordered by acquisition of the per-slot lock: the
// first capacity-many requests win, the rest observe SlotFull. No partial
// state survives a failure; a pending booking created here is always either
// confirmed or cancelled before this returns.
func (c *DefaultCoordinator) Reserve(ctx context.Context, slotID, requesterID string) (*models.Booking, error) {
	release := c.locks.acquire(slotID)
	defer release()

	slot, err := c.Slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Start.Before(time.Now()) {
		return nil, fmt.Errorf("slot %s: %w", slotID, models.ErrSlotExpired)
	}
	// A soft-deleted service surfaces here as NotFound.
	svc, err := c.Services.GetByID(ctx, slot.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, fmt.Errorf("service %s: %w", svc.ID, models.ErrServiceInactive)
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		SlotID:      slot.ID,
		ServiceID:   slot.ServiceID,
		SlotStart:   slot.Start,
		RequesterID: requesterID,
	}
	if err := c.Ledger.CreatePending(ctx, booking); err != nil {
		return nil, err
	}
	c.scheduleReap(booking.ID)

	confirmed, err := c.Ledger.Confirm(ctx, booking.ID, slot.ID, slot.Capacity)
	if err != nil {
		// Never leave an orphaned pending row behind. The reap task stays
		// scheduled if the cancel fails, as the fallback path.
		if _, cancelErr := c.Ledger.Cancel(ctx, booking.ID); cancelErr != nil {
			c.Logger.Error("failed to cancel pending booking after confirm failure",
				zap.String("bookingID", booking.ID), zap.Error(cancelErr))
		} else {
			c.cancelReap(booking.ID)
		}
		if errors.Is(err, models.ErrSlotFull) {
			c.Logger.Info("slot full", zap.String("slotID", slotID), zap.String("requesterID", requesterID))
		}
		return nil, err
	}
	booking.Status = models.BookingConfirmed
	c.cancelReap(booking.ID)

	// Invalidate inside the locked section so the stale window never spans
	// another writer. When the last unit just went, pre-populate "full"
	// instead of merely dropping the entry.
	if confirmed >= slot.Capacity {
		c.Cache.MarkSlotFull(ctx, slotID)
	} else {
		c.Cache.InvalidateSlot(ctx, slotID)
	}

	c.Logger.Info("booking confirmed",
		zap.String("bookingID", booking.ID),
		zap.String("slotID", slotID),
		zap.Int("confirmed", confirmed),
		zap.Int("capacity", slot.Capacity))
	return booking, nil
}

// CancelReservation cancels a pending or confirmed booking and invalidates
// the availability entry for its slot. Cancelling an already-cancelled
// booking fails with models.ErrInvalidTransition and mutates nothing.
func (c *DefaultCoordinator) CancelReservation(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := c.Ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	release := c.locks.acquire(booking.SlotID)
	defer release()

	cancelled, err := c.Ledger.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	c.Cache.InvalidateSlot(ctx, booking.SlotID)
	c.Logger.Info("booking cancelled", zap.String("bookingID", bookingID), zap.String("slotID", booking.SlotID))
	return cancelled, nil
}

// ExpirePending is invoked by the reap worker once a booking's pending TTL
// elapses. Bookings that were confirmed or cancelled in the meantime are
// left untouched.
func (c *DefaultCoordinator) ExpirePending(ctx context.Context, bookingID string) error {
	booking, err := c.Ledger.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	release := c.locks.acquire(booking.SlotID)
	defer release()

	reaped, err := c.Ledger.CancelIfPending(ctx, bookingID)
	if err != nil {
		return err
	}
	if reaped {
		c.Cache.InvalidateSlot(ctx, booking.SlotID)
		c.Logger.Info("reaped stale pending booking",
			zap.String("bookingID", bookingID), zap.String("slotID", booking.SlotID))
	}
	return nil
}

func (c *DefaultCoordinator) ListBookings(ctx context.Context, filter bookingRepo.Filter) ([]models.Booking, error) {
	return c.Ledger.List(ctx, filter)
}

func (c *DefaultCoordinator) scheduleReap(bookingID string) {
	if c.Reaper == nil {
		return
	}
	if err := c.Reaper.ScheduleReap(bookingID, c.PendingTTL); err != nil {
		c.Logger.Warn("failed to schedule pending reap", zap.String("bookingID", bookingID), zap.Error(err))
	}
}

func (c *DefaultCoordinator) cancelReap(bookingID string) {
	if c.Reaper == nil {
		return
	}
	if err := c.Reaper.CancelReap(bookingID); err != nil {
		// The reap handler no-ops on non-pending bookings, so a leftover
		// task costs one wasted delivery at worst.
		c.Logger.Debug("failed to drop reap task", zap.String("bookingID", bookingID), zap.Error(err))
	}
}
