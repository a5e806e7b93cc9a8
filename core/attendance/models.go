package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Record is one student's presence for one class day.
type Record struct {
	ID         string    `json:"id"`
	ClassID    string    `json:"class_id"`
	StudentID  string    `json:"student_id"`
	Date       time.Time `json:"date"` // day precision, UTC
	Present    bool      `json:"present"`
	RecordedBy string    `json:"recorded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// WeekStat is the attendance aggregate for one ISO week.
type WeekStat struct {
	Year       int     `json:"year"`
	Week       int     `json:"week"`
	Recorded   int     `json:"recorded"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

type NewRecord struct {
	ClassID   string    `json:"class_id" validate:"required"`
	StudentID string    `json:"student_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Present   bool      `json:"present"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}

// NewSheet records a whole class's presence for one day in one call.
type NewSheet struct {
	ClassID string       `json:"class_id" validate:"required"`
	Date    time.Time    `json:"date" validate:"required"`
	Entries []SheetEntry `json:"entries" validate:"required,min=1,dive"`
}

type SheetEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	Present   bool   `json:"present"`
}

func (ns *NewSheet) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

type QueryFilter struct {
	ClassID   string    `query:"class_id"`
	StudentID string    `query:"student_id"`
	DateFrom  time.Time `query:"date_from"`
	DateTo    time.Time `query:"date_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.ClassID == "" && qf.StudentID == "" && qf.DateFrom.IsZero() && qf.DateTo.IsZero()
}
