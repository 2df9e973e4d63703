package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResultSubject struct {
	Name     string  `json:"name" bson:"name"`
	Marks    float64 `json:"marks" bson:"marks"`
	MaxMarks float64 `json:"max_marks" bson:"max_marks"`
}

type ResultSubjectPayload struct {
	Name     string  `json:"name" validate:"required"`
	Marks    float64 `json:"marks" validate:"min=0"`
	MaxMarks float64 `json:"max_marks" validate:"required,gt=0"`
}

// ResultUploadPayload is one student's result submitted by a teacher.
type ResultUploadPayload struct {
	GRNumber    string                 `json:"gr_number" validate:"required"`
	StudentName string                 `json:"student_name"`
	Standard    string                 `json:"standard"`
	ExamType    string                 `json:"exam_type"`
	Subjects    []ResultSubjectPayload `json:"subjects" validate:"required,min=1,dive"`
}

// Result is one uploaded result document for one student in one exam.
// GRNumber is the school-wide student identifier; the same student can
// appear in many results.
type Result struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	GRNumber    string             `json:"gr_number" bson:"gr_number"`
	StudentName string             `json:"student_name" bson:"student_name,omitempty"`
	Standard    string             `json:"standard" bson:"standard,omitempty"`
	ExamType    string             `json:"exam_type" bson:"exam_type,omitempty"`
	Subjects    []ResultSubject    `json:"subjects" bson:"subjects"`
	UploadedBy  primitive.ObjectID `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
