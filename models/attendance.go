package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "HalfDay"
	StatusLeave   = "Leave"
)

const (
	MarkedBySelf   = "self"
	MarkedByAdmin  = "admin"
	MarkedBySystem = "system"
)

// AttendanceLocation is recorded only for self-marked Present/HalfDay
// entries. Address carries the verified distance from the school.
type AttendanceLocation struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Address   string  `json:"address,omitempty" bson:"address,omitempty"`
}

// Attendance is one ledger entry per (teacher, calendar day). Date is a
// "2006-01-02" string in the operational timezone; together with
// teacher_id it is covered by a unique index, so at most one record can
// ever exist per teacher per day.
type Attendance struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TeacherID        primitive.ObjectID  `json:"teacher_id" bson:"teacher_id,omitempty"`
	Date             string              `json:"date" bson:"date,omitempty"`
	Status           string              `json:"status" bson:"status,omitempty"`
	MarkedBy         string              `json:"marked_by" bson:"marked_by,omitempty"`
	CheckInTime      string              `json:"check_in_time,omitempty" bson:"check_in_time,omitempty"`
	Location         *AttendanceLocation `json:"location,omitempty" bson:"location,omitempty"`
	AutoMarked       bool                `json:"auto_marked" bson:"auto_marked,omitempty"`
	AutoMarkedReason string              `json:"auto_marked_reason,omitempty" bson:"auto_marked_reason,omitempty"`
	Remarks          string              `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at,omitempty"`
}

type SelfMarkPayload struct {
	Status    string   `json:"status" validate:"required,oneof=Present HalfDay Leave"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Remarks   string   `json:"remarks" validate:"omitempty,max=500"`
}

// AttendanceUpdatePayload is the admin-only correction path. The sweeper
// and the self-mark flow never mutate an existing record.
type AttendanceUpdatePayload struct {
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=Present Absent HalfDay Leave"`
	CheckInTime string `json:"check_in_time,omitempty" validate:"omitempty,datetime=15:04"`
	Remarks     string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

type AttendanceWithTeacher struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	TeacherID   primitive.ObjectID `json:"teacher_id" bson:"teacher_id"`
	Date        string             `json:"date" bson:"date"`
	Status      string             `json:"status" bson:"status"`
	MarkedBy    string             `json:"marked_by" bson:"marked_by"`
	CheckInTime string             `json:"check_in_time,omitempty" bson:"check_in_time,omitempty"`
	AutoMarked  bool               `json:"auto_marked" bson:"auto_marked,omitempty"`
	Remarks     string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	TeacherName string             `json:"teacher_name" bson:"teacher_name"`
	TeacherEmail string            `json:"teacher_email" bson:"teacher_email"`
	EmployeeID  string             `json:"employee_id,omitempty" bson:"employee_id,omitempty"`
}
