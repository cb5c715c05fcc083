package serviceRepo

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

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo creates a new instance of ServiceRepository using MongoDB.
func NewMongoServiceRepo() ServiceRepository {
	repo := &MongoServiceRepo{coll: database.Collection("services")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create service indexes: %v\n", err)
	}
	return repo
}

func (r *MongoServiceRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	now := time.Now()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, svc); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted": false}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("service %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &svc, nil
}

func (r *MongoServiceRepo) List(ctx context.Context) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"deleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *MongoServiceRepo) Update(ctx context.Context, svc *models.Service) error {
	svc.UpdatedAt = time.Now()
	filter := bson.M{"id": svc.ID, "deleted": false}

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": svc})
	if err != nil {
		return fmt.Errorf("failed to update service %s: %w", svc.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("service %s: %w", svc.ID, models.ErrNotFound)
	}
	return nil
}

func (r *MongoServiceRepo) SoftDelete(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"deleted": true, "active": false, "updated_at": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "deleted": false}, update)
	if err != nil {
		return fmt.Errorf("failed to delete service %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("service %s: %w", id, models.ErrNotFound)
	}
	return nil
}
