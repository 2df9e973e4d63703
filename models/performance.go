package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type TopScorer struct {
	GRNumber    string  `json:"gr_number"`
	StudentName string  `json:"student_name,omitempty"`
	Percentage  float64 `json:"percentage"`
}

type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
}

// PerformanceSnapshot is derived on demand, never persisted.
type PerformanceSnapshot struct {
	TeacherID              primitive.ObjectID `json:"teacher_id"`
	TeacherName            string             `json:"teacher_name"`
	TotalUploads           int                `json:"total_uploads"`
	UniqueStudents         int                `json:"unique_students"`
	ClassAveragePercentage float64            `json:"class_average_percentage"`
	PassPercentage         float64            `json:"pass_percentage"`
	AttendanceRate         float64            `json:"attendance_rate"`
	PresentDays            int                `json:"present_days"`
	RecordedDays           int                `json:"recorded_days"`
	OverallScore           float64            `json:"overall_score"`
	Grade                  string             `json:"grade"`
	TopScorer              *TopScorer         `json:"top_scorer,omitempty"`
	SubjectAverages        []SubjectAverage   `json:"subject_averages"`
	UsedFullHistory        bool               `json:"used_full_history"`
}
