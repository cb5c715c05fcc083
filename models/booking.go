package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking occupies one capacity unit of a slot.
// Legal transitions: pending -> confirmed (inside the reservation
// coordinator only) and pending/confirmed -> cancelled. Cancelled is terminal.
type Booking struct {
	ID          string        `bson:"id" json:"id"`
	SlotID      string        `bson:"slot_id" json:"slotId"`
	ServiceID   string        `bson:"service_id" json:"serviceId"`  // denormalized for listing filters
	SlotStart   time.Time     `bson:"slot_start" json:"slotStart"`  // denormalized for upcoming filters
	RequesterID string        `bson:"requester_id" json:"requesterId"`
	Status      BookingStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updatedAt"`
}
