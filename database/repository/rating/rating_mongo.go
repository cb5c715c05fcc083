package ratingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotify/database"
	"slotify/models"
)

// MongoRatingRepo implements RatingRepository using MongoDB.
type MongoRatingRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRepo creates a new instance of RatingRepository using MongoDB.
func NewMongoRatingRepo() RatingRepository {
	repo := &MongoRatingRepo{coll: database.Collection("ratings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create rating indexes: %v\n", err)
	}
	return repo
}

func (r *MongoRatingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoRatingRepo) Insert(ctx context.Context, rating *models.Rating) error {
	rating.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, rating); err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

func (r *MongoRatingRepo) AverageForService(ctx context.Context, serviceID string) (float64, int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"service_id": serviceID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$score"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode rating aggregate: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Average, results[0].Count, nil
}

func (r *MongoRatingRepo) ListByService(ctx context.Context, serviceID string) ([]models.Rating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"service_id": serviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}
