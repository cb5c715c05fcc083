package slotRepo

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

// MongoSlotRepo implements SlotRepository using MongoDB.
type MongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo creates a new instance of SlotRepository using MongoDB.
func NewMongoSlotRepo() SlotRepository {
	repo := &MongoSlotRepo{coll: database.Collection("slots")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create slot indexes: %v\n", err)
	}
	return repo
}

func (r *MongoSlotRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "start", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoSlotRepo) Create(ctx context.Context, slot *models.Slot) error {
	slot.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	return nil
}

func (r *MongoSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	var slot models.Slot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("slot %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slot %s: %w", id, err)
	}
	return &slot, nil
}

func (r *MongoSlotRepo) ListByService(ctx context.Context, serviceID string, from, to time.Time) ([]models.Slot, error) {
	filter := bson.M{"service_id": serviceID}
	window := bson.M{}
	if !from.IsZero() {
		window["$gte"] = from
	}
	if !to.IsZero() {
		window["$lt"] = to
	}
	if len(window) > 0 {
		filter["start"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}
