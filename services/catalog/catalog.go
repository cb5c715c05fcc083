package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	serviceRepo "slotify/database/repository/service"
	slotRepo "slotify/database/repository/slot"
	"slotify/models"
)

// Catalog manages the service directory and its declared slots. Slot
// windows are validated here, before any state change; no cross-slot
// invariants are enforced (overlapping sibling slots are a provider choice).
type Catalog struct {
	Services serviceRepo.ServiceRepository
	Slots    slotRepo.SlotRepository
	Logger   *zap.Logger
}

// ServiceInput carries the mutable metadata of a service.
type ServiceInput struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Location     string  `json:"location"`
	WorkingHours string  `json:"workingHours"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
}

// CreateService publishes a new active service owned by ownerID.
func (c *Catalog) CreateService(ctx context.Context, ownerID string, in ServiceInput) (*models.Service, error) {
	if in.Price < 0 {
		return nil, fmt.Errorf("price %.2f: %w", in.Price, models.ErrInvalidPrice)
	}

	svc := &models.Service{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Price:        in.Price,
		Location:     in.Location,
		WorkingHours: in.WorkingHours,
		Email:        in.Email,
		Phone:        in.Phone,
		Active:       true,
		OwnerID:      ownerID,
	}
	if err := c.Services.Create(ctx, svc); err != nil {
		return nil, err
	}
	c.Logger.Info("service created", zap.String("serviceID", svc.ID), zap.String("ownerID", ownerID))
	return svc, nil
}

func (c *Catalog) GetService(ctx context.Context, id string) (*models.Service, error) {
	return c.Services.GetByID(ctx, id)
}

func (c *Catalog) ListServices(ctx context.Context) ([]models.Service, error) {
	return c.Services.List(ctx)
}

// UpdateService replaces the service metadata. Only the owner may mutate it.
func (c *Catalog) UpdateService(ctx context.Context, id, requesterID string, in ServiceInput) (*models.Service, error) {
	svc, err := c.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.OwnerID != requesterID {
		return nil, fmt.Errorf("service %s not owned by requester: %w", id, models.ErrNotFound)
	}

	svc.Name = in.Name
	svc.Description = in.Description
	svc.Category = in.Category
	svc.Price = in.Price
	svc.Location = in.Location
	svc.WorkingHours = in.WorkingHours
	svc.Email = in.Email
	svc.Phone = in.Phone

	if err := c.Services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService soft-deletes the service, hiding it from queries.
func (c *Catalog) DeleteService(ctx context.Context, id, requesterID string) error {
	svc, err := c.Services.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if svc.OwnerID != requesterID {
		return fmt.Errorf("service %s not owned by requester: %w", id, models.ErrNotFound)
	}
	return c.Services.SoftDelete(ctx, id)
}

// CreateSlot declares a bookable window for a service. Capacity defaults to 1
// when zero; invalid input is rejected before any state change.
func (c *Catalog) CreateSlot(ctx context.Context, serviceID string, start, end time.Time, capacity int) (*models.Slot, error) {
	if capacity == 0 {
		capacity = 1
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("window [%s, %s): %w", start.Format(time.RFC3339), end.Format(time.RFC3339), models.ErrInvalidWindow)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, models.ErrInvalidCapacity)
	}
	if _, err := c.Services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}

	slot := &models.Slot{
		ID:        uuid.New().String(),
		ServiceID: serviceID,
		Start:     start,
		End:       end,
		Capacity:  capacity,
	}
	if err := c.Slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	c.Logger.Info("slot created", zap.String("slotID", slot.ID), zap.String("serviceID", serviceID), zap.Int("capacity", capacity))
	return slot, nil
}

func (c *Catalog) GetSlot(ctx context.Context, id string) (*models.Slot, error) {
	return c.Slots.GetByID(ctx, id)
}

// ListSlots returns a service's slots ordered by start time ascending,
// optionally bounded to [from, to).
func (c *Catalog) ListSlots(ctx context.Context, serviceID string, from, to time.Time) ([]models.Slot, error) {
	if _, err := c.Services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}
	return c.Slots.ListByService(ctx, serviceID, from, to)
}
