package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slotify/models"
	"slotify/services/catalog"
)

type fakeServiceStore struct {
	services map[string]*models.Service
	deleted  []string
}

func newFakeServiceStore() *fakeServiceStore {
	return &fakeServiceStore{services: make(map[string]*models.Service)}
}

func (f *fakeServiceStore) Create(ctx context.Context, svc *models.Service) error {
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeServiceStore) GetByID(ctx context.Context, id string) (*models.Service, error) {
	svc, ok := f.services[id]
	if !ok || svc.Deleted {
		return nil, models.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (f *fakeServiceStore) List(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range f.services {
		if !svc.Deleted {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (f *fakeServiceStore) Update(ctx context.Context, svc *models.Service) error {
	if _, ok := f.services[svc.ID]; !ok {
		return models.ErrNotFound
	}
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeServiceStore) SoftDelete(ctx context.Context, id string) error {
	svc, ok := f.services[id]
	if !ok {
		return models.ErrNotFound
	}
	svc.Deleted = true
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSlotStore struct {
	slots []models.Slot
}

func (f *fakeSlotStore) Create(ctx context.Context, slot *models.Slot) error {
	f.slots = append(f.slots, *slot)
	return nil
}

func (f *fakeSlotStore) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeSlotStore) ListByService(ctx context.Context, serviceID string, from, to time.Time) ([]models.Slot, error) {
	var out []models.Slot
	for _, s := range f.slots {
		if s.ServiceID != serviceID {
			continue
		}
		if !from.IsZero() && s.Start.Before(from) {
			continue
		}
		if !to.IsZero() && !s.Start.Before(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func newTestCatalog() (*catalog.Catalog, *fakeServiceStore, *fakeSlotStore) {
	services := newFakeServiceStore()
	slots := &fakeSlotStore{}
	return &catalog.Catalog{Services: services, Slots: slots, Logger: zap.NewNop()}, services, slots
}

func seedService(t *testing.T, c *catalog.Catalog, ownerID string) *models.Service {
	t.Helper()
	svc, err := c.CreateService(context.Background(), ownerID, catalog.ServiceInput{Name: "Deep Clean", Price: 40})
	require.NoError(t, err)
	return svc
}

func TestCreateService(t *testing.T) {
	c, store, _ := newTestCatalog()

	svc := seedService(t, c, "owner-1")
	assert.True(t, svc.Active)
	assert.Equal(t, "owner-1", svc.OwnerID)
	assert.Contains(t, store.services, svc.ID)
}

func TestCreateService_NegativePrice(t *testing.T) {
	c, store, _ := newTestCatalog()

	_, err := c.CreateService(context.Background(), "owner-1", catalog.ServiceInput{Name: "Deep Clean", Price: -5})
	assert.ErrorIs(t, err, models.ErrInvalidPrice)
	assert.Empty(t, store.services)
}

func TestUpdateService_OwnerOnly(t *testing.T) {
	c, _, _ := newTestCatalog()
	svc := seedService(t, c, "owner-1")

	_, err := c.UpdateService(context.Background(), svc.ID, "intruder", catalog.ServiceInput{Name: "Hijacked"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	updated, err := c.UpdateService(context.Background(), svc.ID, "owner-1", catalog.ServiceInput{Name: "Deeper Clean", Price: 55})
	require.NoError(t, err)
	assert.Equal(t, "Deeper Clean", updated.Name)
	assert.Equal(t, 55.0, updated.Price)
}

func TestDeleteService_HidesFromReads(t *testing.T) {
	c, store, _ := newTestCatalog()
	svc := seedService(t, c, "owner-1")

	assert.ErrorIs(t, c.DeleteService(context.Background(), svc.ID, "intruder"), models.ErrNotFound)

	require.NoError(t, c.DeleteService(context.Background(), svc.ID, "owner-1"))
	assert.Equal(t, []string{svc.ID}, store.deleted)

	_, err := c.GetService(context.Background(), svc.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	listed, err := c.ListServices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreateSlot_Validation(t *testing.T) {
	c, _, _ := newTestCatalog()
	svc := seedService(t, c, "owner-1")
	start := time.Now().Add(time.Hour)

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		capacity int
		wantErr  error
	}{
		{"empty window", start, start, 1, models.ErrInvalidWindow},
		{"inverted window", start.Add(time.Hour), start, 1, models.ErrInvalidWindow},
		{"negative capacity", start, start.Add(time.Hour), -2, models.ErrInvalidCapacity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.CreateSlot(context.Background(), svc.ID, tc.start, tc.end, tc.capacity)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateSlot_CapacityDefaultsToOne(t *testing.T) {
	c, _, _ := newTestCatalog()
	svc := seedService(t, c, "owner-1")
	start := time.Now().Add(time.Hour)

	slot, err := c.CreateSlot(context.Background(), svc.ID, start, start.Add(time.Hour), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Capacity)
}

func TestCreateSlot_UnknownService(t *testing.T) {
	c, _, _ := newTestCatalog()
	start := time.Now().Add(time.Hour)

	_, err := c.CreateSlot(context.Background(), "missing", start, start.Add(time.Hour), 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListSlots_WindowFilter(t *testing.T) {
	c, _, _ := newTestCatalog()
	svc := seedService(t, c, "owner-1")
	base := time.Now().Add(time.Hour).Truncate(time.Hour)

	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		_, err := c.CreateSlot(context.Background(), svc.ID, start, start.Add(time.Hour), 1)
		require.NoError(t, err)
	}

	all, err := c.ListSlots(context.Background(), svc.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bounded, err := c.ListSlots(context.Background(), svc.ID, base.Add(12*time.Hour), base.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Len(t, bounded, 1)
}
