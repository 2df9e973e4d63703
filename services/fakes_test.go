package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"School-Administration-System/models"
	"School-Administration-System/repository"
)

// In-memory stand-ins for the mongo-backed repositories. They reproduce
// the contracts the services rely on: nil for "not found" and
// ErrDuplicateRecord on a second insert for the same (teacher, date).

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*mongo.InsertOneResult, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return &mongo.InsertOneResult{InsertedID: user.ID}, nil
}

func (r *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindAllActiveTeachers(_ context.Context) ([]models.User, error) {
	var teachers []models.User
	for _, u := range r.users {
		if u.Role == models.RoleTeacher && u.IsActive {
			teachers = append(teachers, *u)
		}
	}
	return teachers, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id primitive.ObjectID, _ bson.M) (*mongo.UpdateResult, error) {
	if _, ok := r.users[id]; !ok {
		return &mongo.UpdateResult{}, nil
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *fakeUserRepo) UpdateUserPassword(_ context.Context, _ primitive.ObjectID, _ string) error {
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	delete(r.users, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (r *fakeUserRepo) GetAllUsers(_ context.Context, _ bson.M, _, _ int64) ([]models.User, int64, error) {
	var all []models.User
	for _, u := range r.users {
		all = append(all, *u)
	}
	return all, int64(len(all)), nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*models.Attendance

	// createHook runs before an insert; returning an error aborts it.
	createHook func(*models.Attendance) error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]*models.Attendance{}}
}

func attendanceKey(teacherID primitive.ObjectID, date string) string {
	return teacherID.Hex() + "|" + date
}

func (r *fakeAttendanceRepo) Create(_ context.Context, attendance *models.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createHook != nil {
		if err := r.createHook(attendance); err != nil {
			return err
		}
	}

	key := attendanceKey(attendance.TeacherID, attendance.Date)
	if _, exists := r.records[key]; exists {
		return repository.ErrDuplicateRecord
	}

	if attendance.ID.IsZero() {
		attendance.ID = primitive.NewObjectID()
	}
	attendance.CreatedAt = time.Now()
	attendance.UpdatedAt = time.Now()
	r.records[key] = attendance
	return nil
}

func (r *fakeAttendanceRepo) FindByTeacherAndDate(_ context.Context, teacherID primitive.ObjectID, date string) (*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[attendanceKey(teacherID, date)], nil
}

func (r *fakeAttendanceRepo) ListForTeacher(_ context.Context, teacherID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Attendance
	for _, rec := range r.records {
		if rec.TeacherID == teacherID && rec.Date >= startDate && rec.Date <= endDate {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListAllForTeacher(_ context.Context, teacherID primitive.ObjectID) ([]models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Attendance
	for _, rec := range r.records {
		if rec.TeacherID == teacherID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListForDay(_ context.Context, date string) ([]models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Attendance
	for _, rec := range r.records {
		if rec.Date == date {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListForRange(_ context.Context, startDate, endDate string) ([]models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Attendance
	for _, rec := range r.records {
		if rec.Date >= startDate && rec.Date <= endDate {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListForDayWithTeacher(_ context.Context, _ string) ([]models.AttendanceWithTeacher, error) {
	return []models.AttendanceWithTeacher{}, nil
}

func (r *fakeAttendanceRepo) UpdateByAdmin(_ context.Context, _ primitive.ObjectID, _ *models.AttendanceUpdatePayload) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

type fakePolicyRepo struct {
	policy models.AttendancePolicy
}

func defaultTestPolicy() models.AttendancePolicy {
	return models.AttendancePolicy{
		Key:              models.PolicyKey,
		Enabled:          true,
		DeadlineTime:     "18:00",
		HalfDayThreshold: "12:00",
		EnableHalfDay:    true,
		AutoMarkAsLeave:  true,
		ExcludeWeekends:  true,
		NotifyTeachers:   true,
	}
}

func (r *fakePolicyRepo) GetSettings(_ context.Context) (*models.AttendancePolicy, error) {
	policy := r.policy
	return &policy, nil
}

func (r *fakePolicyRepo) UpdateSettings(_ context.Context, payload *models.PolicyUpdatePayload) (*models.AttendancePolicy, bool, error) {
	deadlineChanged := payload.DeadlineTime != "" && payload.DeadlineTime != r.policy.DeadlineTime
	if payload.DeadlineTime != "" {
		r.policy.DeadlineTime = payload.DeadlineTime
	}
	policy := r.policy
	return &policy, deadlineChanged, nil
}

type fakeHolidayRepo struct {
	today *models.Holiday
}

func (r *fakeHolidayRepo) Create(_ context.Context, holiday *models.Holiday) (*mongo.InsertOneResult, error) {
	holiday.ID = primitive.NewObjectID()
	return &mongo.InsertOneResult{InsertedID: holiday.ID}, nil
}

func (r *fakeHolidayRepo) List(_ context.Context) ([]models.Holiday, error) {
	return []models.Holiday{}, nil
}

func (r *fakeHolidayRepo) ListRecurring(_ context.Context) ([]models.Holiday, error) {
	return []models.Holiday{}, nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, _ primitive.ObjectID) (*mongo.DeleteResult, error) {
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (r *fakeHolidayRepo) IsHoliday(_ context.Context, _ time.Time) (*models.Holiday, error) {
	return r.today, nil
}

type fakeResultRepo struct {
	results []models.Result
}

func (r *fakeResultRepo) Create(_ context.Context, result *models.Result) (*mongo.InsertOneResult, error) {
	result.ID = primitive.NewObjectID()
	r.results = append(r.results, *result)
	return &mongo.InsertOneResult{InsertedID: result.ID}, nil
}

func (r *fakeResultRepo) FindByUploader(_ context.Context, teacherID primitive.ObjectID) ([]models.Result, error) {
	var out []models.Result
	for _, res := range r.results {
		if res.UploadedBy == teacherID {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	sent    []string
	failFor map[string]bool
}

func (n *fakeNotifier) Send(email, _, _, _ string) error {
	if n.failFor[email] {
		return fmt.Errorf("delivery to %s failed", email)
	}
	n.sent = append(n.sent, email)
	return nil
}
