package ratingRepo

import (
	"context"

	"slotify/models"
)

// RatingRepository persists rating rows. Ratings are append-only.
type RatingRepository interface {
	Insert(ctx context.Context, rating *models.Rating) error
	// AverageForService returns the arithmetic mean of all scores for the
	// service and how many ratings exist. Zero ratings yields (0, 0, nil).
	AverageForService(ctx context.Context, serviceID string) (float64, int, error)
	ListByService(ctx context.Context, serviceID string) ([]models.Rating, error)
}
