package rating

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ratingRepo "slotify/database/repository/rating"
	serviceRepo "slotify/database/repository/service"
	"slotify/models"
)

// Invalidator is the slice of the availability cache the aggregator needs.
type Invalidator interface {
	InvalidateRating(ctx context.Context, serviceID string)
}

// Aggregator recomputes average ratings on demand and reacts to new ratings
// by invalidating the cached view. Recomputation is deliberately lazy: a
// burst of rating writes costs one invalidation each, not one recompute each.
type Aggregator struct {
	Ratings  ratingRepo.RatingRepository
	Services serviceRepo.ServiceRepository
	Cache    Invalidator
	Logger   *zap.Logger
}

// Recompute returns the arithmetic mean of all stored ratings for the
// service, rounded to two decimals, or 0 when none exist. Pure function of
// the stored rows; no hidden state.
func (a *Aggregator) Recompute(ctx context.Context, serviceID string) (float64, error) {
	avg, count, err := a.Ratings.AverageForService(ctx, serviceID)
	if err != nil {
		return 0, fmt.Errorf("recompute rating for service %s: %w", serviceID, err)
	}
	if count == 0 {
		return 0, nil
	}
	return math.Round(avg*100) / 100, nil
}

// OnRatingAdded is the external trigger fired after a rating row is
// persisted. It does exactly one thing: drop the cached average so the next
// read recomputes.
func (a *Aggregator) OnRatingAdded(ctx context.Context, serviceID string) {
	a.Cache.InvalidateRating(ctx, serviceID)
}

// Add validates and persists a new rating, then triggers OnRatingAdded.
// A re-rate is a new record; dedup per rater is a concern of the review
// subsystem, not this core.
func (a *Aggregator) Add(ctx context.Context, serviceID, raterID string, score int) (*models.Rating, error) {
	if score < models.MinRatingScore || score > models.MaxRatingScore {
		return nil, fmt.Errorf("score %d: %w", score, models.ErrInvalidRating)
	}
	if _, err := a.Services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}

	r := &models.Rating{
		ID:        uuid.New().String(),
		ServiceID: serviceID,
		RaterID:   raterID,
		Score:     score,
		CreatedAt: time.Now(),
	}
	if err := a.Ratings.Insert(ctx, r); err != nil {
		return nil, err
	}

	a.Logger.Debug("rating added", zap.String("serviceID", serviceID), zap.Int("score", score))
	a.OnRatingAdded(ctx, serviceID)
	return r, nil
}
