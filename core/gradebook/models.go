package gradebook

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shuleni/core"
)

// Activity is a gradable piece of class work (quiz, assignment, exam).
type Activity struct {
	ID         string    `json:"id"`
	ClassID    string    `json:"class_id"`
	Name       string    `json:"name"`
	TotalMarks float64   `json:"total_marks"`
	DueDate    time.Time `json:"due_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// Submission is one student's work for an Activity.
// ObtainedMarks is nil until the submission is graded; ungraded submissions
// never contribute to aggregates.
type Submission struct {
	ID            string    `json:"id"`
	ActivityID    string    `json:"activity_id"`
	StudentID     string    `json:"student_id"`
	ObtainedMarks *float64  `json:"obtained_marks"`
	GradedBy      string    `json:"graded_by,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"` // UTC
	GradedAt      time.Time `json:"graded_at"`    // UTC
}

// Score is one submission joined with its activity's total marks; the unit
// the aggregation runs on.
type Score struct {
	Obtained *float64 `json:"obtained"`
	Total    float64  `json:"total"`
}

// Distribution counts submissions per grade bucket.
type Distribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
	F int `json:"F"`
}

// GradeSummary is the aggregate view of a class's graded submissions.
// With zero qualifying submissions it holds {0, 0, 100, {}}; callers must
// treat LowestGrade=100 together with Count=0 as "no data", not "everyone
// scored 100%".
type GradeSummary struct {
	Count        int          `json:"count"`
	ClassAverage float64      `json:"class_average"`
	HighestGrade float64      `json:"highest_grade"`
	LowestGrade  float64      `json:"lowest_grade"`
	Distribution Distribution `json:"distribution"`
}

type NewActivity struct {
	ClassID    string    `json:"class_id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	TotalMarks float64   `json:"total_marks" validate:"required,gt=0"`
	DueDate    time.Time `json:"due_date"`
}

func (na *NewActivity) Validate(validate *validator.Validate, svc Service) error {
	na.Name = core.CleanString(na.Name)

	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.CheckActivityUniqueness(na.ClassID, na.Name)
}

type GradeInput struct {
	ActivityID    string  `json:"activity_id" validate:"required"`
	StudentID     string  `json:"student_id" validate:"required"`
	ObtainedMarks float64 `json:"obtained_marks" validate:"gte=0"`
}

func (gi *GradeInput) Validate(validate *validator.Validate) error {
	return validate.Struct(gi)
}
