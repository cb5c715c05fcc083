package models

import "time"

// AvailabilityEntry is the cached answer to "does slot X have remaining
// capacity". Entries are owned by the availability cache and are only ever
// invalidated by writers, never mutated in place.
type AvailabilityEntry struct {
	Available  bool      `json:"available"`
	Generation int64     `json:"generation"`
	ComputedAt time.Time `json:"computedAt"`
}

// RatingEntry is the cached average rating for a service.
type RatingEntry struct {
	Average    float64   `json:"average"`
	Generation int64     `json:"generation"`
	ComputedAt time.Time `json:"computedAt"`
}
