package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"School-Administration-System/config"
	"School-Administration-System/models"
)

type PolicyRepository interface {
	GetSettings(ctx context.Context) (*models.AttendancePolicy, error)
	// UpdateSettings merges the non-empty fields of the payload into the
	// policy document and reports whether the deadline time changed, so
	// the caller can reschedule the sweeper.
	UpdateSettings(ctx context.Context, payload *models.PolicyUpdatePayload) (*models.AttendancePolicy, bool, error)
}

type policyRepository struct {
	collection *mongo.Collection
}

func NewPolicyRepository() PolicyRepository {
	return &policyRepository{
		collection: config.GetCollection(config.PolicyCollection),
	}
}

// GetSettings returns the automation policy, creating it with defaults
// on first read. The upsert makes the lazy initialization atomic even
// when several requests race for the first read.
func (r *policyRepository) GetSettings(ctx context.Context) (*models.AttendancePolicy, error) {
	filter := bson.M{"key": models.PolicyKey}
	update := bson.M{
		"$setOnInsert": bson.M{
			"key":                models.PolicyKey,
			"enabled":            true,
			"deadline_time":      "18:00",
			"half_day_threshold": "12:00",
			"enable_half_day":    true,
			"auto_mark_as_leave": true,
			"exclude_weekends":   true,
			"notify_teachers":    true,
			"created_at":         time.Now(),
			"updated_at":         time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var policy models.AttendancePolicy
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&policy)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance policy: %w", err)
	}
	return &policy, nil
}

func (r *policyRepository) UpdateSettings(ctx context.Context, payload *models.PolicyUpdatePayload) (*models.AttendancePolicy, bool, error) {
	current, err := r.GetSettings(ctx)
	if err != nil {
		return nil, false, err
	}

	set := bson.M{"updated_at": time.Now()}
	if payload.Enabled != nil {
		set["enabled"] = *payload.Enabled
	}
	if payload.DeadlineTime != "" {
		set["deadline_time"] = payload.DeadlineTime
	}
	if payload.HalfDayThreshold != "" {
		set["half_day_threshold"] = payload.HalfDayThreshold
	}
	if payload.EnableHalfDay != nil {
		set["enable_half_day"] = *payload.EnableHalfDay
	}
	if payload.AutoMarkAsLeave != nil {
		set["auto_mark_as_leave"] = *payload.AutoMarkAsLeave
	}
	if payload.ExcludeWeekends != nil {
		set["exclude_weekends"] = *payload.ExcludeWeekends
	}
	if payload.NotifyTeachers != nil {
		set["notify_teachers"] = *payload.NotifyTeachers
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"key": models.PolicyKey}, bson.M{"$set": set})
	if err != nil {
		return nil, false, fmt.Errorf("failed to update attendance policy: %w", err)
	}

	updated, err := r.GetSettings(ctx)
	if err != nil {
		return nil, false, err
	}

	deadlineChanged := payload.DeadlineTime != "" && payload.DeadlineTime != current.DeadlineTime
	return updated, deadlineChanged, nil
}
