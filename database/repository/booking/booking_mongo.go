package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotify/database"
	"slotify/models"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slot_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
		{Keys: bson.D{{Key: "requester_id", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) CreatePending(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.Status = models.BookingPending
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create pending booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) CountConfirmed(ctx context.Context, slotID string) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"slot_id": slotID,
		"status":  models.BookingConfirmed,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed bookings for slot %s: %w", slotID, err)
	}
	return int(count), nil
}

// Confirm runs the count-check and the status write in a single Mongo
// transaction so a concurrent commit cannot slip between them.
func (r *MongoBookingRepo) Confirm(ctx context.Context, bookingID, slotID string, capacity int) (int, error) {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("%w: could not start mongo session: %v", models.ErrConcurrencyConflict, err)
	}
	defer sess.EndSession(ctx)

	var confirmed int
	txnFn := func(sc mongo.SessionContext) error {
		count, err := r.coll.CountDocuments(sc, bson.M{
			"slot_id": slotID,
			"status":  models.BookingConfirmed,
		})
		if err != nil {
			return fmt.Errorf("confirmed count failed: %w", err)
		}
		if int(count) >= capacity {
			return models.ErrSlotFull
		}

		filter := bson.M{"id": bookingID, "status": models.BookingPending}
		update := bson.M{"$set": bson.M{
			"status":     models.BookingConfirmed,
			"updated_at": time.Now(),
		}}
		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("confirm update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return models.ErrInvalidTransition
		}
		confirmed = int(count) + 1
		return nil
	}

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	if err != nil {
		if errors.Is(err, models.ErrSlotFull) || errors.Is(err, models.ErrInvalidTransition) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", models.ErrConcurrencyConflict, err)
	}
	return confirmed, nil
}

func (r *MongoBookingRepo) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	filter := bson.M{"id": bookingID, "status": bson.M{"$ne": models.BookingCancelled}}
	update := bson.M{"$set": bson.M{
		"status":     models.BookingCancelled,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either unknown or already cancelled; look it up to tell them apart.
		if _, getErr := r.GetByID(ctx, bookingID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("booking %s already cancelled: %w", bookingID, models.ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) CancelIfPending(ctx context.Context, bookingID string) (bool, error) {
	filter := bson.M{"id": bookingID, "status": models.BookingPending}
	update := bson.M{"$set": bson.M{
		"status":     models.BookingCancelled,
		"updated_at": time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to reap booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoBookingRepo) List(ctx context.Context, filter Filter) ([]models.Booking, error) {
	query := bson.M{}
	if filter.ServiceID != "" {
		query["service_id"] = filter.ServiceID
	}
	if filter.RequesterID != "" {
		query["requester_id"] = filter.RequesterID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if !filter.From.IsZero() {
		query["slot_start"] = bson.M{"$gte": filter.From}
	}

	opts := options.Find().SetSort(bson.D{{Key: "slot_start", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
