package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/models"
	"School-Administration-System/pkg/geofence"
	util "School-Administration-System/pkg/utils"
	"School-Administration-System/repository"
)

// Self-marking windows are fixed on purpose: they gate the credibility
// of a same-day submission, unlike the sweeper's deadline which is
// policy-configurable and governs teachers who never submitted at all.
const (
	presentCutoff = "11:00"
	halfDayCutoff = "14:30"
)

var (
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrForbidden        = errors.New("only teachers and admins can mark attendance")
	ErrLocationRequired = errors.New("location (latitude, longitude) is required for this status")
)

// AlreadyMarkedError carries the record that already exists for today.
// It is the normal idempotency outcome, not a failure.
type AlreadyMarkedError struct {
	Existing *models.Attendance
}

func (e *AlreadyMarkedError) Error() string {
	return fmt.Sprintf("attendance already marked today as %s", e.Existing.Status)
}

type WindowClosedError struct {
	Status string
	Cutoff string
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("%s attendance must be marked before %s", e.Status, e.Cutoff)
}

type LocationOutOfRangeError struct {
	DistanceKm float64
	Message    string
}

func (e *LocationOutOfRangeError) Error() string {
	return e.Message
}

type SelfMarkService struct {
	users      repository.UserRepository
	attendance repository.AttendanceRepository
	policies   repository.PolicyRepository
	geo        *geofence.Verifier
	loc        *time.Location

	// Now is swappable for tests.
	Now func() time.Time
}

func NewSelfMarkService(
	users repository.UserRepository,
	attendance repository.AttendanceRepository,
	policies repository.PolicyRepository,
	geo *geofence.Verifier,
	loc *time.Location,
) *SelfMarkService {
	return &SelfMarkService{
		users:      users,
		attendance: attendance,
		policies:   policies,
		geo:        geo,
		loc:        loc,
		Now:        time.Now,
	}
}

// Mark records the calling teacher's own attendance for today. Exactly
// one record can exist per teacher per day; if the compliance sweeper
// wins the race for today's slot the duplicate insert is reported as
// AlreadyMarkedError with the winning record attached.
func (s *SelfMarkService) Mark(ctx context.Context, teacherID primitive.ObjectID, payload *models.SelfMarkPayload) (*models.Attendance, error) {
	now := s.Now().In(s.loc)
	today := now.Format(util.DateLayout)

	teacher, err := s.users.FindUserByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, ErrTeacherNotFound
	}
	if teacher.Role != models.RoleTeacher && teacher.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	existing, err := s.attendance.FindByTeacherAndDate(ctx, teacherID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &AlreadyMarkedError{Existing: existing}
	}

	status := payload.Status

	switch status {
	case models.StatusPresent:
		if !beforeCutoff(now, presentCutoff) {
			return nil, &WindowClosedError{Status: models.StatusPresent, Cutoff: "11:00 AM"}
		}
	case models.StatusHalfDay:
		if !beforeCutoff(now, halfDayCutoff) {
			return nil, &WindowClosedError{Status: models.StatusHalfDay, Cutoff: "2:30 PM"}
		}
	case models.StatusLeave:
		// no time restriction
	}

	var location *models.AttendanceLocation
	if status != models.StatusLeave {
		if payload.Latitude == nil || payload.Longitude == nil {
			return nil, ErrLocationRequired
		}

		verification := s.geo.Verify(*payload.Latitude, *payload.Longitude)
		if !verification.Accepted {
			return nil, &LocationOutOfRangeError{
				DistanceKm: verification.DistanceKm,
				Message:    verification.Message,
			}
		}

		location = &models.AttendanceLocation{
			Latitude:  *payload.Latitude,
			Longitude: *payload.Longitude,
			Address:   fmt.Sprintf("verified %.2f km from school", verification.DistanceKm),
		}
	}

	// A Present submission past the policy's half-day threshold is
	// recorded as HalfDay when half days are enabled.
	policy, err := s.policies.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if status == models.StatusPresent && policy.EnableHalfDay &&
		util.IsValidHHMM(policy.HalfDayThreshold) && !beforeCutoff(now, policy.HalfDayThreshold) {
		status = models.StatusHalfDay
	}

	record := &models.Attendance{
		TeacherID:   teacherID,
		Date:        today,
		Status:      status,
		MarkedBy:    models.MarkedBySelf,
		CheckInTime: now.Format("15:04"),
		Location:    location,
		Remarks:     payload.Remarks,
	}

	if err := s.attendance.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			winner, findErr := s.attendance.FindByTeacherAndDate(ctx, teacherID, today)
			if findErr == nil && winner != nil {
				return nil, &AlreadyMarkedError{Existing: winner}
			}
			return nil, &AlreadyMarkedError{Existing: record}
		}
		return nil, err
	}

	return record, nil
}

// TodayStatus returns today's ledger entry for the teacher, or nil when
// nothing has been recorded yet.
func (s *SelfMarkService) TodayStatus(ctx context.Context, teacherID primitive.ObjectID) (*models.Attendance, error) {
	today := s.Now().In(s.loc).Format(util.DateLayout)
	return s.attendance.FindByTeacherAndDate(ctx, teacherID, today)
}

// beforeCutoff reports whether now's wall-clock time is strictly before
// the HH:MM cutoff.
func beforeCutoff(now time.Time, cutoff string) bool {
	parts := strings.SplitN(cutoff, ":", 2)
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return now.Hour()*60+now.Minute() < hour*60+minute
}
