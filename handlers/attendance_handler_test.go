package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"School-Administration-System/models"
)

// recordingAttendanceRepo captures the date the day view is asked for.
type recordingAttendanceRepo struct {
	lastDayQueried string
}

func (r *recordingAttendanceRepo) Create(_ context.Context, _ *models.Attendance) error {
	return nil
}

func (r *recordingAttendanceRepo) FindByTeacherAndDate(_ context.Context, _ primitive.ObjectID, _ string) (*models.Attendance, error) {
	return nil, nil
}

func (r *recordingAttendanceRepo) ListForTeacher(_ context.Context, _ primitive.ObjectID, _, _ string) ([]models.Attendance, error) {
	return []models.Attendance{}, nil
}

func (r *recordingAttendanceRepo) ListAllForTeacher(_ context.Context, _ primitive.ObjectID) ([]models.Attendance, error) {
	return []models.Attendance{}, nil
}

func (r *recordingAttendanceRepo) ListForDay(_ context.Context, _ string) ([]models.Attendance, error) {
	return []models.Attendance{}, nil
}

func (r *recordingAttendanceRepo) ListForRange(_ context.Context, _, _ string) ([]models.Attendance, error) {
	return []models.Attendance{}, nil
}

func (r *recordingAttendanceRepo) ListForDayWithTeacher(_ context.Context, date string) ([]models.AttendanceWithTeacher, error) {
	r.lastDayQueried = date
	return []models.AttendanceWithTeacher{}, nil
}

func (r *recordingAttendanceRepo) UpdateByAdmin(_ context.Context, _ primitive.ObjectID, _ *models.AttendanceUpdatePayload) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func newDayViewFixture(loc *time.Location, clock time.Time) (*fiber.App, *recordingAttendanceRepo) {
	repo := &recordingAttendanceRepo{}
	handler := NewAttendanceHandler(repo, nil, loc)
	handler.now = func() time.Time { return clock }

	app := fiber.New()
	app.Get("/day", handler.GetDayAttendance)
	return app, repo
}

func TestGetDayAttendanceDefaultsToOperationalDay(t *testing.T) {
	// 20:00 UTC is already the next calendar day at UTC+05:30.
	ist := time.FixedZone("IST", 5*3600+30*60)
	clock := time.Date(2025, time.June, 2, 20, 0, 0, 0, time.UTC)

	app, repo := newDayViewFixture(ist, clock)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/day", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	if repo.lastDayQueried != "2025-06-03" {
		t.Errorf("expected the day view to default to 2025-06-03, got %q", repo.lastDayQueried)
	}
}

func TestGetDayAttendanceExplicitDate(t *testing.T) {
	app, repo := newDayViewFixture(time.UTC, time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/day?date=2025-01-15", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if repo.lastDayQueried != "2025-01-15" {
		t.Errorf("expected the explicit date to pass through, got %q", repo.lastDayQueried)
	}
}

func TestGetDayAttendanceRejectsBadDate(t *testing.T) {
	app, repo := newDayViewFixture(time.UTC, time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/day?date=15-01-2025", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed date, got %d", resp.StatusCode)
	}
	if repo.lastDayQueried != "" {
		t.Errorf("malformed date must not reach the repository, got %q", repo.lastDayQueried)
	}
}
