package models

import "time"

// Slot is a declared bookable time window owned by a service.
// It carries no remaining-capacity field; availability is derived by
// counting confirmed bookings against Capacity.
type Slot struct {
	ID        string    `bson:"id" json:"id"`
	ServiceID string    `bson:"service_id" json:"serviceId"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"` // invariant: Start < End
	Capacity  int       `bson:"capacity" json:"capacity"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
