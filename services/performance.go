package services

import (
	"context"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/models"
	"School-Administration-System/repository"
)

const passMarkPercentage = 33.0

// PerformanceService derives a composite teacher score from uploaded
// results and the attendance ledger. Computed on demand, nothing is
// persisted.
type PerformanceService struct {
	users      repository.UserRepository
	results    repository.ResultRepository
	attendance repository.AttendanceRepository
	loc        *time.Location

	// Now is swappable for tests.
	Now func() time.Time
}

func NewPerformanceService(
	users repository.UserRepository,
	results repository.ResultRepository,
	attendance repository.AttendanceRepository,
	loc *time.Location,
) *PerformanceService {
	return &PerformanceService{
		users:      users,
		results:    results,
		attendance: attendance,
		loc:        loc,
		Now:        time.Now,
	}
}

// Score computes the snapshot for one teacher. Returns nil when the
// teacher does not exist; every zero-denominator case scores 0 instead
// of failing.
func (s *PerformanceService) Score(ctx context.Context, teacherID primitive.ObjectID) (*models.PerformanceSnapshot, error) {
	teacher, err := s.users.FindUserByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, nil
	}

	allResults, err := s.results.FindByUploader(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	// Scope to the current and immediately preceding academic year
	// (April to March); fall back to the full history when that window
	// is empty rather than silently scoring zero uploads.
	now := s.Now().In(s.loc)
	cutoff := academicYearStart(now).AddDate(-1, 0, 0)

	var qualifying []models.Result
	for _, r := range allResults {
		if !r.CreatedAt.Before(cutoff) {
			qualifying = append(qualifying, r)
		}
	}
	usedFullHistory := false
	if len(qualifying) == 0 && len(allResults) > 0 {
		qualifying = allResults
		usedFullHistory = true
	}

	snapshot := &models.PerformanceSnapshot{
		TeacherID:       teacherID,
		TeacherName:     teacher.Name,
		TotalUploads:    len(qualifying),
		SubjectAverages: []models.SubjectAverage{},
		UsedFullHistory: usedFullHistory,
	}

	// Best percentage per unique student; a student re-assessed several
	// times counts once, at their best attempt.
	bestByStudent := map[string]float64{}
	nameByStudent := map[string]string{}

	var totalObtained, totalMax float64
	subjectObtained := map[string]float64{}
	subjectMax := map[string]float64{}

	for _, result := range qualifying {
		var obtained, max float64
		for _, subject := range result.Subjects {
			obtained += subject.Marks
			max += subject.MaxMarks
			subjectObtained[subject.Name] += subject.Marks
			subjectMax[subject.Name] += subject.MaxMarks
		}
		totalObtained += obtained
		totalMax += max

		percentage := 0.0
		if max > 0 {
			percentage = obtained / max * 100
		}

		if best, seen := bestByStudent[result.GRNumber]; !seen || percentage > best {
			bestByStudent[result.GRNumber] = percentage
			nameByStudent[result.GRNumber] = result.StudentName
		}
	}

	snapshot.UniqueStudents = len(bestByStudent)

	// Marks-weighted class average across all qualifying results. This
	// is intentionally not deduplicated per student, unlike the pass
	// rate below.
	if totalMax > 0 {
		snapshot.ClassAveragePercentage = totalObtained / totalMax * 100
	}

	if len(bestByStudent) > 0 {
		passed := 0
		for gr, best := range bestByStudent {
			if best >= passMarkPercentage {
				passed++
			}
			if snapshot.TopScorer == nil || best > snapshot.TopScorer.Percentage {
				snapshot.TopScorer = &models.TopScorer{
					GRNumber:    gr,
					StudentName: nameByStudent[gr],
					Percentage:  best,
				}
			}
		}
		snapshot.PassPercentage = float64(passed) / float64(len(bestByStudent)) * 100
	}

	for subject, max := range subjectMax {
		average := 0.0
		if max > 0 {
			average = subjectObtained[subject] / max * 100
		}
		snapshot.SubjectAverages = append(snapshot.SubjectAverages, models.SubjectAverage{
			Subject: subject,
			Average: average,
		})
	}
	sort.Slice(snapshot.SubjectAverages, func(i, j int) bool {
		return snapshot.SubjectAverages[i].Subject < snapshot.SubjectAverages[j].Subject
	})

	records, err := s.attendance.ListAllForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	snapshot.RecordedDays = len(records)
	for _, record := range records {
		if record.Status == models.StatusPresent {
			snapshot.PresentDays++
		}
	}
	if snapshot.RecordedDays > 0 {
		snapshot.AttendanceRate = float64(snapshot.PresentDays) / float64(snapshot.RecordedDays) * 100
	}

	// Weighted composite: uploads capped at 25 (linear up to 50
	// uploads), class average 30, attendance 25, pass rate 20.
	uploadsComponent := math.Min(float64(snapshot.TotalUploads), 50) / 50 * 25
	snapshot.OverallScore = uploadsComponent +
		snapshot.ClassAveragePercentage*0.30 +
		snapshot.AttendanceRate*0.25 +
		snapshot.PassPercentage*0.20

	snapshot.Grade = gradeFor(snapshot.OverallScore)

	return snapshot, nil
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

// academicYearStart returns April 1st of the academic year containing t.
func academicYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, t.Location())
}
