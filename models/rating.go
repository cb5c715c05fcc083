package models

import "time"

// Rating score bounds.
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is a single score left for a service. Ratings are append-only;
// a re-rate is a new record, never a mutation.
type Rating struct {
	ID        string    `bson:"id" json:"id"`
	ServiceID string    `bson:"service_id" json:"serviceId"`
	RaterID   string    `bson:"rater_id" json:"raterId"`
	Score     int       `bson:"score" json:"score"` // MinRatingScore..MaxRatingScore
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
