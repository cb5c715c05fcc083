package rating_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slotify/models"
	"slotify/services/rating"
)

// fakeRatings computes averages over inserted rows, like the Mongo
// aggregation pipeline does.
type fakeRatings struct {
	rows []models.Rating
}

func (f *fakeRatings) Insert(ctx context.Context, r *models.Rating) error {
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeRatings) AverageForService(ctx context.Context, serviceID string) (float64, int, error) {
	sum, count := 0, 0
	for _, r := range f.rows {
		if r.ServiceID == serviceID {
			sum += r.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (f *fakeRatings) ListByService(ctx context.Context, serviceID string) ([]models.Rating, error) {
	var out []models.Rating
	for _, r := range f.rows {
		if r.ServiceID == serviceID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeServices struct {
	known map[string]bool
}

func (f *fakeServices) Create(ctx context.Context, svc *models.Service) error { return nil }

func (f *fakeServices) GetByID(ctx context.Context, id string) (*models.Service, error) {
	if !f.known[id] {
		return nil, models.ErrNotFound
	}
	return &models.Service{ID: id}, nil
}

func (f *fakeServices) List(ctx context.Context) ([]models.Service, error)    { return nil, nil }
func (f *fakeServices) Update(ctx context.Context, svc *models.Service) error { return nil }
func (f *fakeServices) SoftDelete(ctx context.Context, id string) error       { return nil }

type recordingInvalidator struct {
	invalidated []string
}

func (r *recordingInvalidator) InvalidateRating(ctx context.Context, serviceID string) {
	r.invalidated = append(r.invalidated, serviceID)
}

func newTestAggregator() (*rating.Aggregator, *fakeRatings, *recordingInvalidator) {
	ratings := &fakeRatings{}
	inv := &recordingInvalidator{}
	agg := &rating.Aggregator{
		Ratings:  ratings,
		Services: &fakeServices{known: map[string]bool{"svc-1": true}},
		Cache:    inv,
		Logger:   zap.NewNop(),
	}
	return agg, ratings, inv
}

func TestRecompute_Mean(t *testing.T) {
	agg, ratings, _ := newTestAggregator()
	for _, score := range []int{5, 4, 4} {
		ratings.rows = append(ratings.rows, models.Rating{ServiceID: "svc-1", Score: score})
	}

	avg, err := agg.Recompute(context.Background(), "svc-1")
	require.NoError(t, err)
	assert.Equal(t, 4.33, avg) // 13/3 rounded to two decimals
}

func TestRecompute_NoRatings(t *testing.T) {
	agg, _, _ := newTestAggregator()

	avg, err := agg.Recompute(context.Background(), "svc-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestAdd_PersistsAndInvalidates(t *testing.T) {
	agg, ratings, inv := newTestAggregator()

	r, err := agg.Add(context.Background(), "svc-1", "user-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Score)
	assert.Len(t, ratings.rows, 1)
	assert.Equal(t, []string{"svc-1"}, inv.invalidated)
}

func TestAdd_ScoreBounds(t *testing.T) {
	agg, ratings, inv := newTestAggregator()

	for _, score := range []int{0, 6, -1} {
		_, err := agg.Add(context.Background(), "svc-1", "user-1", score)
		assert.ErrorIs(t, err, models.ErrInvalidRating, "score %d", score)
	}
	assert.Empty(t, ratings.rows)
	assert.Empty(t, inv.invalidated)
}

func TestAdd_UnknownService(t *testing.T) {
	agg, ratings, _ := newTestAggregator()

	_, err := agg.Add(context.Background(), "missing", "user-1", 3)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, ratings.rows)
}

func TestAdd_RepeatRatingsAreNewRecords(t *testing.T) {
	agg, ratings, _ := newTestAggregator()

	_, err := agg.Add(context.Background(), "svc-1", "user-1", 2)
	require.NoError(t, err)
	_, err = agg.Add(context.Background(), "svc-1", "user-1", 4)
	require.NoError(t, err)

	assert.Len(t, ratings.rows, 2)
	avg, err := agg.Recompute(context.Background(), "svc-1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)
}
