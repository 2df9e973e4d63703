package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PolicyKey is the conventional key of the single automation policy
// document. There is exactly one policy per deployment.
const PolicyKey = "attendance_automation"

type AttendancePolicy struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key              string             `json:"-" bson:"key"`
	Enabled          bool               `json:"enabled" bson:"enabled"`
	DeadlineTime     string             `json:"deadline_time" bson:"deadline_time"`
	HalfDayThreshold string             `json:"half_day_threshold" bson:"half_day_threshold"`
	EnableHalfDay    bool               `json:"enable_half_day" bson:"enable_half_day"`
	AutoMarkAsLeave  bool               `json:"auto_mark_as_leave" bson:"auto_mark_as_leave"`
	ExcludeWeekends  bool               `json:"exclude_weekends" bson:"exclude_weekends"`
	NotifyTeachers   bool               `json:"notify_teachers" bson:"notify_teachers"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

// PolicyUpdatePayload is a partial update, only non-nil / non-empty
// fields are written. Time fields must be 24-hour HH:MM.
type PolicyUpdatePayload struct {
	Enabled          *bool  `json:"enabled,omitempty"`
	DeadlineTime     string `json:"deadline_time,omitempty" validate:"omitempty,hhmm"`
	HalfDayThreshold string `json:"half_day_threshold,omitempty" validate:"omitempty,hhmm"`
	EnableHalfDay    *bool  `json:"enable_half_day,omitempty"`
	AutoMarkAsLeave  *bool  `json:"auto_mark_as_leave,omitempty"`
	ExcludeWeekends  *bool  `json:"exclude_weekends,omitempty"`
	NotifyTeachers   *bool  `json:"notify_teachers,omitempty"`
}
