package availability

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"slotify/models"
)

// Cache key prefixes; full keys are "availability:<slotId>" and
// "rating:<serviceId>". Generation counters live under "gen:" + key.
const (
	availabilityKeyPrefix = "availability:"
	ratingKeyPrefix       = "rating:"
	generationKeyPrefix   = "gen:"
)

// SlotSource is the slice of the slot store the cache reads on a miss.
type SlotSource interface {
	GetByID(ctx context.Context, id string) (*models.Slot, error)
}

// ConfirmedCounter is the slice of the booking ledger the cache reads on a miss.
type ConfirmedCounter interface {
	CountConfirmed(ctx context.Context, slotID string) (int, error)
}

// RatingSource recomputes the average rating for a service on demand.
type RatingSource interface {
	Recompute(ctx context.Context, serviceID string) (float64, error)
}

// Cache is the derived, invalidatable view over slot availability and
// average ratings. It is the only component that writes cache entries;
// everyone else may only invalidate. Cache unavailability degrades to
// recomputing from the stores, never to a request failure.
//
// Entries are fenced by a per-key generation counter: every invalidation
// bumps it, and a recompute only repopulates if the counter still matches
// the snapshot taken before reading the stores. A recompute that raced a
// writer therefore discards its result instead of resurrecting a
// pre-commit value over the writer's invalidation.
type Cache struct {
	Store   Store
	Slots   SlotSource
	Ledger  ConfirmedCounter
	Ratings RatingSource
	TTL     time.Duration // expiry backstop against missed invalidations
	Logger  *zap.Logger
}

// NewCache constructs a cache with its collaborators injected. Tests build a
// fresh instance per case; there is no package-level state.
func NewCache(store Store, slots SlotSource, ledger ConfirmedCounter, ratings RatingSource, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{Store: store, Slots: slots, Ledger: ledger, Ratings: ratings, TTL: ttl, Logger: logger}
}

func availabilityKey(slotID string) string { return availabilityKeyPrefix + slotID }
func ratingKey(serviceID string) string    { return ratingKeyPrefix + serviceID }

// GetAvailability answers "does slot X have remaining capacity". On a hit it
// returns the cached value without touching the stores; on a miss it
// recomputes from the slot and booking stores and repopulates the entry,
// unless an invalidation landed while it was recomputing.
func (c *Cache) GetAvailability(ctx context.Context, slotID string) (bool, error) {
	key := availabilityKey(slotID)

	if raw, err := c.Store.Get(ctx, key); err == nil {
		var entry models.AvailabilityEntry
		if jsonErr := json.Unmarshal([]byte(raw), &entry); jsonErr == nil {
			return entry.Available, nil
		}
		c.Logger.Warn("corrupt availability entry, recomputing", zap.String("key", key))
	} else if !errors.Is(err, ErrCacheMiss) {
		c.Logger.Warn("availability cache read failed, recomputing", zap.String("key", key), zap.Error(err))
	}

	gen, genOK := c.generationSnapshot(ctx, key)

	slot, err := c.Slots.GetByID(ctx, slotID)
	if err != nil {
		return false, err
	}
	count, err := c.Ledger.CountConfirmed(ctx, slotID)
	if err != nil {
		return false, err
	}
	available := count < slot.Capacity

	if genOK {
		entry := models.AvailabilityEntry{Available: available, Generation: gen, ComputedAt: time.Now()}
		c.writeEntryIfCurrent(ctx, key, entry, gen)
	}
	return available, nil
}

// MarkSlotFull pre-populates the entry as "no remaining capacity". Writers
// may call it instead of a plain invalidation once capacity reaches zero.
// The generation bump ensures any recompute that read pre-commit state
// cannot overwrite it.
func (c *Cache) MarkSlotFull(ctx context.Context, slotID string) {
	key := availabilityKey(slotID)
	gen, err := c.Store.Incr(ctx, generationKeyPrefix+key)
	if err != nil {
		c.Logger.Warn("generation bump failed, falling back to invalidation", zap.String("key", key), zap.Error(err))
		c.InvalidateSlot(ctx, slotID)
		return
	}
	entry := models.AvailabilityEntry{Available: false, Generation: gen, ComputedAt: time.Now()}
	c.writeEntry(ctx, key, entry)
}

// InvalidateSlot drops the availability entry for a slot and fences off any
// in-flight recompute. Idempotent and always safe to call; failures are
// logged, never surfaced.
func (c *Cache) InvalidateSlot(ctx context.Context, slotID string) {
	c.invalidate(ctx, availabilityKey(slotID))
}

// GetAverageRating answers with the cached mean rating for a service,
// recomputing through the rating aggregator on a miss.
func (c *Cache) GetAverageRating(ctx context.Context, serviceID string) (float64, error) {
	key := ratingKey(serviceID)

	if raw, err := c.Store.Get(ctx, key); err == nil {
		var entry models.RatingEntry
		if jsonErr := json.Unmarshal([]byte(raw), &entry); jsonErr == nil {
			return entry.Average, nil
		}
		c.Logger.Warn("corrupt rating entry, recomputing", zap.String("key", key))
	} else if !errors.Is(err, ErrCacheMiss) {
		c.Logger.Warn("rating cache read failed, recomputing", zap.String("key", key), zap.Error(err))
	}

	gen, genOK := c.generationSnapshot(ctx, key)

	avg, err := c.Ratings.Recompute(ctx, serviceID)
	if err != nil {
		return 0, err
	}

	if genOK {
		entry := models.RatingEntry{Average: avg, Generation: gen, ComputedAt: time.Now()}
		c.writeEntryIfCurrent(ctx, key, entry, gen)
	}
	return avg, nil
}

// InvalidateRating drops the cached average rating for a service.
func (c *Cache) InvalidateRating(ctx context.Context, serviceID string) {
	c.invalidate(ctx, ratingKey(serviceID))
}

// invalidate bumps the generation counter before dropping the entry so a
// concurrent recompute that snapshotted the old generation discards its
// write.
func (c *Cache) invalidate(ctx context.Context, key string) {
	if _, err := c.Store.Incr(ctx, generationKeyPrefix+key); err != nil {
		c.Logger.Warn("generation bump failed", zap.String("key", key), zap.Error(err))
	}
	if err := c.Store.Del(ctx, key); err != nil {
		c.Logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// generationSnapshot reads the current generation for a key; an absent
// counter is generation 0. ok is false when the store is unreachable, in
// which case the caller skips repopulation and serves the recomputed value.
func (c *Cache) generationSnapshot(ctx context.Context, key string) (gen int64, ok bool) {
	raw, err := c.Store.Get(ctx, generationKeyPrefix+key)
	if errors.Is(err, ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	gen, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		c.Logger.Warn("corrupt generation counter", zap.String("key", key))
		return 0, false
	}
	return gen, true
}

func (c *Cache) writeEntry(ctx context.Context, key string, entry any) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.Logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.Store.Set(ctx, key, string(data), c.TTL); err != nil {
		c.Logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) writeEntryIfCurrent(ctx context.Context, key string, entry any, gen int64) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.Logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	written, err := c.Store.SetIfGeneration(ctx, key, string(data), c.TTL, generationKeyPrefix+key, gen)
	if err != nil {
		c.Logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !written {
		c.Logger.Debug("entry invalidated during recompute, discarding", zap.String("key", key))
	}
}
