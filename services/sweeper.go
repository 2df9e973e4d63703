package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/models"
	util "School-Administration-System/pkg/utils"
	"School-Administration-System/repository"
)

// Per-run soft timeout: a fixed floor plus a per-teacher allowance.
const (
	sweepBaseTimeout       = 30 * time.Second
	sweepPerTeacherTimeout = 500 * time.Millisecond
)

type MarkedTeacher struct {
	TeacherID primitive.ObjectID `json:"teacher_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
}

// SweepReport is the structured summary of one sweeper invocation,
// consumed by administrators.
type SweepReport struct {
	RunID          string          `json:"run_id"`
	Date           string          `json:"date"`
	Forced         bool            `json:"forced"`
	Skipped        bool            `json:"skipped"`
	SkipReason     string          `json:"skip_reason,omitempty"`
	TotalTeachers  int             `json:"total_teachers"`
	AlreadyMarked  int             `json:"already_marked_count"`
	Marked         int             `json:"marked_count"`
	Notified       int             `json:"notified_count"`
	MarkedTeachers []MarkedTeacher `json:"marked_teachers"`
	Errors         []string        `json:"errors,omitempty"`
}

// Sweeper auto-resolves missing attendance into Leave once per day,
// after the policy deadline. It is idempotent: re-running it, or racing
// it against a late self-mark, never produces a second record for the
// same (teacher, day): the ledger's unique index arbitrates and the
// duplicate insert is swallowed as "already marked".
type Sweeper struct {
	users      repository.UserRepository
	attendance repository.AttendanceRepository
	policies   repository.PolicyRepository
	holidays   repository.HolidayRepository
	notifier   Notifier
	loc        *time.Location
	weeklyOff  time.Weekday

	// Now is swappable for tests.
	Now func() time.Time
}

func NewSweeper(
	users repository.UserRepository,
	attendance repository.AttendanceRepository,
	policies repository.PolicyRepository,
	holidays repository.HolidayRepository,
	notifier Notifier,
	loc *time.Location,
	weeklyOffDay string,
) *Sweeper {
	return &Sweeper{
		users:      users,
		attendance: attendance,
		policies:   policies,
		holidays:   holidays,
		notifier:   notifier,
		loc:        loc,
		weeklyOff:  ParseWeekday(weeklyOffDay),
		Now:        time.Now,
	}
}

// Run executes one sweep. force bypasses the enabled/deadline/weekend/
// holiday gates (admin-triggered test runs); the per-teacher writes are
// identical either way.
func (s *Sweeper) Run(ctx context.Context, force bool) (*SweepReport, error) {
	now := s.Now().In(s.loc)
	report := &SweepReport{
		RunID:          uuid.New().String(),
		Date:           now.Format(util.DateLayout),
		Forced:         force,
		MarkedTeachers: []MarkedTeacher{},
	}

	policy, err := s.policies.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if !policy.Enabled && !force {
		return s.skip(report, "automation disabled"), nil
	}

	if beforeCutoff(now, policy.DeadlineTime) && !force {
		return s.skip(report, fmt.Sprintf("before deadline (%s)", policy.DeadlineTime)), nil
	}

	if policy.ExcludeWeekends && now.Weekday() == s.weeklyOff && !force {
		return s.skip(report, "weekend"), nil
	}

	holiday, err := s.holidays.IsHoliday(ctx, now)
	if err != nil {
		return nil, err
	}
	if holiday != nil && !force {
		return s.skip(report, fmt.Sprintf("holiday: %s", holiday.Name)), nil
	}

	teachers, err := s.users.FindAllActiveTeachers(ctx)
	if err != nil {
		return nil, err
	}
	report.TotalTeachers = len(teachers)

	ctx, cancel := context.WithTimeout(ctx, sweepBaseTimeout+time.Duration(len(teachers))*sweepPerTeacherTimeout)
	defer cancel()

	reason := fmt.Sprintf("not marked by deadline %s", policy.DeadlineTime)

	for _, teacher := range teachers {
		existing, err := s.attendance.FindByTeacherAndDate(ctx, teacher.ID, report.Date)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", teacher.Name, err))
			continue
		}
		if existing != nil {
			report.AlreadyMarked++
			continue
		}

		if !policy.AutoMarkAsLeave {
			continue
		}

		record := &models.Attendance{
			TeacherID:        teacher.ID,
			Date:             report.Date,
			Status:           models.StatusLeave,
			MarkedBy:         models.MarkedBySystem,
			AutoMarked:       true,
			AutoMarkedReason: reason,
		}

		err = s.attendance.Create(ctx, record)
		if errors.Is(err, repository.ErrDuplicateRecord) {
			// Lost the race against a late self-mark. Fine.
			report.AlreadyMarked++
			continue
		}
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", teacher.Name, err))
			continue
		}

		report.Marked++
		report.MarkedTeachers = append(report.MarkedTeachers, MarkedTeacher{
			TeacherID: teacher.ID,
			Name:      teacher.Name,
			Email:     teacher.Email,
		})
	}

	if policy.NotifyTeachers {
		message := fmt.Sprintf(
			"Your attendance for %s was automatically marked as %s because it was %s.",
			report.Date, models.StatusLeave, reason,
		)
		for _, marked := range report.MarkedTeachers {
			if err := s.notifier.Send(marked.Email, marked.Name, models.StatusLeave, message); err != nil {
				log.Printf("[sweeper] run=%s failed to notify %s: %v", report.RunID, marked.Email, err)
				continue
			}
			report.Notified++
		}
	}

	log.Printf("[sweeper] run=%s date=%s total=%d already=%d marked=%d notified=%d errors=%d",
		report.RunID, report.Date, report.TotalTeachers, report.AlreadyMarked,
		report.Marked, report.Notified, len(report.Errors))

	return report, nil
}

func (s *Sweeper) skip(report *SweepReport, reason string) *SweepReport {
	report.Skipped = true
	report.SkipReason = reason
	log.Printf("[sweeper] run=%s skipped: %s", report.RunID, reason)
	return report
}

// ParseWeekday maps a weekday name to time.Weekday, defaulting to
// Sunday when the name is unrecognized.
func ParseWeekday(name string) time.Weekday {
	switch strings.ToLower(name) {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
