package slotRepo

import (
	"context"
	"time"

	"slotify/models"
)

// SlotRepository is the slot store. It enforces no cross-slot invariants;
// overlapping sibling slots of the same service are allowed by design.
type SlotRepository interface {
	Create(ctx context.Context, slot *models.Slot) error
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	// ListByService returns slots ordered by start time ascending. The zero
	// value for from/to leaves that bound open. Each call re-queries current
	// data, so the sequence is restartable.
	ListByService(ctx context.Context, serviceID string, from, to time.Time) ([]models.Slot, error)
}
