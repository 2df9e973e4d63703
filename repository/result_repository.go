package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"School-Administration-System/config"
	"School-Administration-System/models"
)

// ResultRepository stores uploaded student results and serves the
// performance scorer's per-teacher view of them.
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) (*mongo.InsertOneResult, error)
	FindByUploader(ctx context.Context, teacherID primitive.ObjectID) ([]models.Result, error)
}

type resultRepository struct {
	collection *mongo.Collection
}

func NewResultRepository() ResultRepository {
	return &resultRepository{
		collection: config.GetCollection(config.ResultCollection),
	}
}

func (r *resultRepository) Create(ctx context.Context, result *models.Result) (*mongo.InsertOneResult, error) {
	result.ID = primitive.NewObjectID()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	res, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to create result: %w", err)
	}
	return res, nil
}

func (r *resultRepository) FindByUploader(ctx context.Context, teacherID primitive.ObjectID) ([]models.Result, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"uploaded_by": teacherID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find results by uploader: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Result
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	if len(results) == 0 {
		return []models.Result{}, nil
	}
	return results, nil
}
