package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Holiday marks a non-working day. Recurring holidays match on
// month/day in every year (Republic Day, Independence Day, ...).
type Holiday struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Date        string             `json:"date" bson:"date"`
	Name        string             `json:"name" bson:"name"`
	IsRecurring bool               `json:"is_recurring" bson:"is_recurring"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

type HolidayCreatePayload struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Name        string `json:"name" validate:"required,min=3,max=100"`
	IsRecurring bool   `json:"is_recurring"`
}

// HolidayOccurrence is one concrete calendar date produced by expanding
// stored holidays (recurring ones included) into a date range.
type HolidayOccurrence struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	IsRecurring bool   `json:"is_recurring"`
}
