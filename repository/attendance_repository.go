package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"School-Administration-System/config"
	"School-Administration-System/models"
)

// ErrDuplicateRecord is returned by Create when a ledger entry already
// exists for the same (teacher, date). Callers must treat it as
// "someone already recorded today", never as a failure to retry with an
// overwrite: the self-mark flow rejects, the sweeper skips.
var ErrDuplicateRecord = errors.New("attendance already recorded for this teacher and date")

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	FindByTeacherAndDate(ctx context.Context, teacherID primitive.ObjectID, date string) (*models.Attendance, error)
	ListForTeacher(ctx context.Context, teacherID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error)
	ListAllForTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]models.Attendance, error)
	ListForDay(ctx context.Context, date string) ([]models.Attendance, error)
	ListForRange(ctx context.Context, startDate, endDate string) ([]models.Attendance, error)
	ListForDayWithTeacher(ctx context.Context, date string) ([]models.AttendanceWithTeacher, error)
	UpdateByAdmin(ctx context.Context, id primitive.ObjectID, payload *models.AttendanceUpdatePayload) (*mongo.UpdateResult, error)
}

type attendanceRepository struct {
	collection *mongo.Collection
}

func NewAttendanceRepository() AttendanceRepository {
	return &attendanceRepository{
		collection: config.GetCollection(config.AttendanceCollection),
	}
}

// Create inserts exactly one ledger entry. The unique (teacher_id, date)
// index makes the insert the synchronization point between self-marking
// and the compliance sweeper; there is deliberately no read-then-write
// check here.
func (r *attendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	if attendance.ID.IsZero() {
		attendance.ID = primitive.NewObjectID()
	}
	attendance.CreatedAt = time.Now()
	attendance.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, attendance)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (r *attendanceRepository) FindByTeacherAndDate(ctx context.Context, teacherID primitive.ObjectID, date string) (*models.Attendance, error) {
	var attendance models.Attendance
	filter := bson.M{"teacher_id": teacherID, "date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance by teacher and date: %w", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) ListForTeacher(ctx context.Context, teacherID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error) {
	filter := bson.M{
		"teacher_id": teacherID,
		"date":       bson.M{"$gte": startDate, "$lte": endDate},
	}
	return r.list(ctx, filter)
}

func (r *attendanceRepository) ListAllForTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]models.Attendance, error) {
	return r.list(ctx, bson.M{"teacher_id": teacherID})
}

func (r *attendanceRepository) ListForDay(ctx context.Context, date string) ([]models.Attendance, error) {
	return r.list(ctx, bson.M{"date": date})
}

func (r *attendanceRepository) ListForRange(ctx context.Context, startDate, endDate string) ([]models.Attendance, error) {
	return r.list(ctx, bson.M{"date": bson.M{"$gte": startDate, "$lte": endDate}})
}

func (r *attendanceRepository) list(ctx context.Context, filter bson.M) ([]models.Attendance, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "date", Value: -1}, {Key: "check_in_time", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Attendance
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode attendance records: %w", err)
	}

	if len(results) == 0 {
		return []models.Attendance{}, nil
	}
	return results, nil
}

func (r *attendanceRepository) ListForDayWithTeacher(ctx context.Context, date string) ([]models.AttendanceWithTeacher, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "date", Value: date}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.UserCollection},
			{Key: "localField", Value: "teacher_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "teacherDetails"},
		}}},
		{{Key: "$unwind", Value: "$teacherDetails"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "teacher_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
			{Key: "marked_by", Value: 1},
			{Key: "check_in_time", Value: 1},
			{Key: "auto_marked", Value: 1},
			{Key: "remarks", Value: 1},
			{Key: "teacher_name", Value: "$teacherDetails.name"},
			{Key: "teacher_email", Value: "$teacherDetails.email"},
			{Key: "employee_id", Value: "$teacherDetails.employee_id"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily attendance: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.AttendanceWithTeacher
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode daily attendance aggregation: %w", err)
	}

	if len(results) == 0 {
		return []models.AttendanceWithTeacher{}, nil
	}
	return results, nil
}

// UpdateByAdmin is the administrator correction path. Auto-marked and
// self-marked records are otherwise terminal.
func (r *attendanceRepository) UpdateByAdmin(ctx context.Context, id primitive.ObjectID, payload *models.AttendanceUpdatePayload) (*mongo.UpdateResult, error) {
	set := bson.M{"updated_at": time.Now(), "marked_by": models.MarkedByAdmin}
	if payload.Status != "" {
		set["status"] = payload.Status
	}
	if payload.CheckInTime != "" {
		set["check_in_time"] = payload.CheckInTime
	}
	if payload.Remarks != "" {
		set["remarks"] = payload.Remarks
	}

	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return res, nil
}
