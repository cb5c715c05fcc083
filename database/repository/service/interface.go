package serviceRepo

import (
	"context"

	"slotify/models"
)

// ServiceRepository defines persistence operations for the service catalog.
// Soft-deleted services are hidden from all queries.
type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
	Update(ctx context.Context, svc *models.Service) error
	SoftDelete(ctx context.Context, id string) error
}
