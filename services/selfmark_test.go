package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/models"
	"School-Administration-System/pkg/geofence"
	"School-Administration-System/repository"
)

func newSelfMarkFixture(t *testing.T, teacher *models.User, now time.Time) (*SelfMarkService, *fakeAttendanceRepo, *fakePolicyRepo) {
	t.Helper()

	users := newFakeUserRepo(teacher)
	attendance := newFakeAttendanceRepo()
	policies := &fakePolicyRepo{policy: defaultTestPolicy()}
	geo := geofence.NewVerifier("19.0760", "72.8777", "1.0")

	svc := NewSelfMarkService(users, attendance, policies, geo, time.UTC)
	svc.Now = func() time.Time { return now }
	return svc, attendance, policies
}

func testTeacher() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Asha Sharma",
		Email:    "asha@school.local",
		Role:     models.RoleTeacher,
		IsActive: true,
	}
}

func floatPtr(f float64) *float64 { return &f }

func schoolLocationPayload(status string) *models.SelfMarkPayload {
	return &models.SelfMarkPayload{
		Status:    status,
		Latitude:  floatPtr(19.0761),
		Longitude: floatPtr(72.8778),
	}
}

func TestMarkPresentWithinWindow(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 59, 0, 0, time.UTC)
	svc, attendance, _ := newSelfMarkFixture(t, teacher, now)

	record, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusPresent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Status != models.StatusPresent {
		t.Errorf("expected Present, got %q", record.Status)
	}
	if record.MarkedBy != models.MarkedBySelf {
		t.Errorf("expected marked_by self, got %q", record.MarkedBy)
	}
	if record.Date != "2025-06-02" {
		t.Errorf("unexpected date %q", record.Date)
	}
	if record.CheckInTime != "10:59" {
		t.Errorf("unexpected check-in time %q", record.CheckInTime)
	}
	if record.Location == nil {
		t.Fatal("expected a verified location to be recorded")
	}

	stored, _ := attendance.FindByTeacherAndDate(context.Background(), teacher.ID, "2025-06-02")
	if stored == nil {
		t.Fatal("expected the record to be persisted")
	}
}

func TestMarkPresentWindowClosed(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 11, 1, 0, 0, time.UTC)
	svc, _, _ := newSelfMarkFixture(t, teacher, now)

	_, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusPresent))

	var windowClosed *WindowClosedError
	if !errors.As(err, &windowClosed) {
		t.Fatalf("expected WindowClosedError, got %v", err)
	}
	if windowClosed.Status != models.StatusPresent {
		t.Errorf("unexpected status in error: %q", windowClosed.Status)
	}
}

func TestMarkHalfDayWindow(t *testing.T) {
	teacher := testTeacher()

	// 14:29 is inside the window.
	svc, _, _ := newSelfMarkFixture(t, teacher, time.Date(2025, time.June, 2, 14, 29, 0, 0, time.UTC))
	if _, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusHalfDay)); err != nil {
		t.Fatalf("expected HalfDay at 14:29 to succeed, got %v", err)
	}

	// 14:31 is past it.
	svc, _, _ = newSelfMarkFixture(t, teacher, time.Date(2025, time.June, 2, 14, 31, 0, 0, time.UTC))
	_, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusHalfDay))
	var windowClosed *WindowClosedError
	if !errors.As(err, &windowClosed) {
		t.Fatalf("expected WindowClosedError at 14:31, got %v", err)
	}
}

func TestMarkLeaveHasNoWindowOrLocation(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 20, 0, 0, 0, time.UTC)
	svc, _, _ := newSelfMarkFixture(t, teacher, now)

	record, err := svc.Mark(context.Background(), teacher.ID, &models.SelfMarkPayload{Status: models.StatusLeave, Remarks: "personal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != models.StatusLeave {
		t.Errorf("expected Leave, got %q", record.Status)
	}
	if record.Location != nil {
		t.Errorf("expected no location on a Leave record, got %+v", record.Location)
	}
}

func TestMarkAlreadyMarked(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	svc, attendance, _ := newSelfMarkFixture(t, teacher, now)

	existing := &models.Attendance{TeacherID: teacher.ID, Date: "2025-06-02", Status: models.StatusPresent}
	if err := attendance.Create(context.Background(), existing); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusPresent))

	var alreadyMarked *AlreadyMarkedError
	if !errors.As(err, &alreadyMarked) {
		t.Fatalf("expected AlreadyMarkedError, got %v", err)
	}
	if alreadyMarked.Existing.Status != models.StatusPresent {
		t.Errorf("expected the existing record to be attached, got %+v", alreadyMarked.Existing)
	}
}

func TestMarkLocationRequired(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSelfMarkFixture(t, teacher, now)

	_, err := svc.Mark(context.Background(), teacher.ID, &models.SelfMarkPayload{Status: models.StatusPresent})
	if !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
}

func TestMarkLocationOutOfRange(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	svc, attendance, _ := newSelfMarkFixture(t, teacher, now)

	payload := &models.SelfMarkPayload{
		Status:    models.StatusPresent,
		Latitude:  floatPtr(28.6139),
		Longitude: floatPtr(77.2090),
	}

	_, err := svc.Mark(context.Background(), teacher.ID, payload)

	var outOfRange *LocationOutOfRangeError
	if !errors.As(err, &outOfRange) {
		t.Fatalf("expected LocationOutOfRangeError, got %v", err)
	}
	if outOfRange.DistanceKm < 1000 {
		t.Errorf("expected a four-digit distance, got %f", outOfRange.DistanceKm)
	}

	if stored, _ := attendance.FindByTeacherAndDate(context.Background(), teacher.ID, "2025-06-02"); stored != nil {
		t.Error("rejected submission must not write a record")
	}
}

func TestMarkUnknownTeacher(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSelfMarkFixture(t, teacher, now)

	_, err := svc.Mark(context.Background(), primitive.NewObjectID(), schoolLocationPayload(models.StatusPresent))
	if !errors.Is(err, ErrTeacherNotFound) {
		t.Fatalf("expected ErrTeacherNotFound, got %v", err)
	}
}

func TestMarkStudentForbidden(t *testing.T) {
	student := testTeacher()
	student.Role = models.RoleStudent
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSelfMarkFixture(t, student, now)

	_, err := svc.Mark(context.Background(), student.ID, schoolLocationPayload(models.StatusPresent))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMarkPresentDowngradedToHalfDay(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 30, 0, 0, time.UTC)
	svc, _, policies := newSelfMarkFixture(t, teacher, now)

	policies.policy.HalfDayThreshold = "10:00"

	record, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusPresent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != models.StatusHalfDay {
		t.Errorf("expected downgrade to HalfDay past the threshold, got %q", record.Status)
	}
}

func TestMarkPresentNotDowngradedWhenHalfDayDisabled(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 30, 0, 0, time.UTC)
	svc, _, policies := newSelfMarkFixture(t, teacher, now)

	policies.policy.HalfDayThreshold = "10:00"
	policies.policy.EnableHalfDay = false

	record, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusPresent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != models.StatusPresent {
		t.Errorf("expected Present when half days are disabled, got %q", record.Status)
	}
}

func TestMarkLosesRaceAgainstSweeper(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	svc, attendance, _ := newSelfMarkFixture(t, teacher, now)

	// The sweeper slips its record in between the existence check and
	// the insert; the unique index turns our insert into a duplicate.
	winner := &models.Attendance{
		ID:        primitive.NewObjectID(),
		TeacherID: teacher.ID,
		Date:      "2025-06-02",
		Status:    models.StatusLeave,
		MarkedBy:  models.MarkedBySystem,
	}
	attendance.createHook = func(*models.Attendance) error {
		attendance.createHook = nil
		attendance.records[attendanceKey(teacher.ID, "2025-06-02")] = winner
		return repository.ErrDuplicateRecord
	}

	_, err := svc.Mark(context.Background(), teacher.ID, schoolLocationPayload(models.StatusPresent))

	var alreadyMarked *AlreadyMarkedError
	if !errors.As(err, &alreadyMarked) {
		t.Fatalf("expected AlreadyMarkedError, got %v", err)
	}
	if alreadyMarked.Existing.MarkedBy != models.MarkedBySystem {
		t.Errorf("expected the sweeper's record to be attached, got %+v", alreadyMarked.Existing)
	}
}

func TestTodayStatus(t *testing.T) {
	teacher := testTeacher()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	svc, attendance, _ := newSelfMarkFixture(t, teacher, now)

	record, err := svc.TodayStatus(context.Background(), teacher.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil before marking, got %+v", record)
	}

	seed := &models.Attendance{TeacherID: teacher.ID, Date: "2025-06-02", Status: models.StatusPresent}
	if err := attendance.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	record, err = svc.TodayStatus(context.Background(), teacher.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record == nil || record.Status != models.StatusPresent {
		t.Errorf("expected today's record, got %+v", record)
	}
}

func TestBeforeCutoff(t *testing.T) {
	cases := []struct {
		clock  string
		cutoff string
		want   bool
	}{
		{"10:59", "11:00", true},
		{"11:00", "11:00", false},
		{"11:01", "11:00", false},
		{"00:00", "18:00", true},
		{"23:59", "18:00", false},
		{"12:00", "bogus", false},
	}

	for _, tc := range cases {
		clock, err := time.Parse("15:04", tc.clock)
		if err != nil {
			t.Fatalf("bad test clock %q: %v", tc.clock, err)
		}
		if got := beforeCutoff(clock, tc.cutoff); got != tc.want {
			t.Errorf("beforeCutoff(%s, %s) = %v, want %v", tc.clock, tc.cutoff, got, tc.want)
		}
	}
}
