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
	util "School-Administration-System/pkg/utils"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday *models.Holiday) (*mongo.InsertOneResult, error)
	List(ctx context.Context) ([]models.Holiday, error)
	ListRecurring(ctx context.Context) ([]models.Holiday, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
	// IsHoliday returns the matching holiday for the given date or nil.
	// An exact calendar-date match takes precedence over recurring
	// month/day matches.
	IsHoliday(ctx context.Context, date time.Time) (*models.Holiday, error)
}

type holidayRepository struct {
	collection *mongo.Collection
}

func NewHolidayRepository() HolidayRepository {
	return &holidayRepository{
		collection: config.GetCollection(config.HolidayCollection),
	}
}

func (r *holidayRepository) Create(ctx context.Context, holiday *models.Holiday) (*mongo.InsertOneResult, error) {
	holiday.ID = primitive.NewObjectID()
	holiday.CreatedAt = time.Now()

	res, err := r.collection.InsertOne(ctx, holiday)
	if err != nil {
		return nil, fmt.Errorf("failed to create holiday: %w", err)
	}
	return res, nil
}

func (r *holidayRepository) List(ctx context.Context) ([]models.Holiday, error) {
	return r.listWithFilter(ctx, bson.M{})
}

func (r *holidayRepository) ListRecurring(ctx context.Context) ([]models.Holiday, error) {
	return r.listWithFilter(ctx, bson.M{"is_recurring": true})
}

func (r *holidayRepository) listWithFilter(ctx context.Context, filter bson.M) ([]models.Holiday, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer cursor.Close(ctx)

	var holidays []models.Holiday
	if err = cursor.All(ctx, &holidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}

	if len(holidays) == 0 {
		return []models.Holiday{}, nil
	}
	return holidays, nil
}

func (r *holidayRepository) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete holiday: %w", err)
	}
	return res, nil
}

func (r *holidayRepository) IsHoliday(ctx context.Context, date time.Time) (*models.Holiday, error) {
	holidays, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return util.ResolveHoliday(holidays, date), nil
}
