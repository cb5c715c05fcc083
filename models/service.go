package models

import "time"

// Service represents a bookable resource published by a provider.
type Service struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Category     string    `bson:"category,omitempty" json:"category,omitempty"`
	Price        float64   `bson:"price" json:"price"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	WorkingHours string    `bson:"working_hours,omitempty" json:"workingHours,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Active       bool      `bson:"active" json:"active"`
	OwnerID      string    `bson:"owner_id" json:"ownerId"` // provider who published the service
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
	Deleted      bool      `bson:"deleted" json:"-"` // soft delete; hidden from queries
}
