package gradebook

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shuleni/core"
)

var (
	// errors
	ErrActivityNotFound   = errors.New("activity not found")
	ErrActivityExists     = errors.New("an activity with this name already exists in this class")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionExists   = errors.New("a submission already exists for this student and activity")

	errMarksExceedTotal = errors.New("obtained marks cannot exceed the activity's total marks")
)

type (
	Repository interface {
		CheckActivityUniqueness(ctx context.Context, classID, name string, excluded ...Activity) error
		CreateActivity(ctx context.Context, act Activity) (Activity, error)
		GetActivityByID(ctx context.Context, id string) (Activity, error)
		QueryActivities(ctx context.Context, classID string, ordering []core.DBOrdering) ([]Activity, error)
		DeleteActivitiesByID(ctx context.Context, ids ...string) error

		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissions(ctx context.Context, activityID string) ([]Submission, error)
		// QueryClassScores joins all of a class's graded and ungraded
		// submissions with their activity's total marks.
		QueryClassScores(ctx context.Context, classID string) ([]Score, error)
	}

	Service interface {
		CheckActivityUniqueness(classID, name string, excluded ...Activity) error
		CreateActivity(na NewActivity) (Activity, error)
		GetActivity(id string) (Activity, error)
		QueryActivities(classID string, ordering []core.DBOrdering) ([]Activity, error)
		DeleteActivities(ids ...string) error

		Grade(gi GradeInput, gradedBy string) (Submission, error)
		QuerySubmissions(activityID string) ([]Submission, error)
		ClassSummary(classID string) (GradeSummary, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckActivityUniqueness(classID, name string, excluded ...Activity) error {
	if err := svc.repo.CheckActivityUniqueness(context.Background(), classID, name, excluded...); err != nil {
		if err == ErrActivityExists {
			return core.NewConflictError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateActivity(na NewActivity) (Activity, error) {
	now := time.Now().UTC()
	act := Activity{
		ClassID:    na.ClassID,
		Name:       na.Name,
		TotalMarks: na.TotalMarks,
		DueDate:    na.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateActivity(context.Background(), act)
}

func (svc *service) GetActivity(id string) (Activity, error) {
	return svc.repo.GetActivityByID(context.Background(), id)
}

func (svc *service) QueryActivities(classID string, ordering []core.DBOrdering) ([]Activity, error) {
	return svc.repo.QueryActivities(context.Background(), classID, ordering)
}

func (svc *service) DeleteActivities(ids ...string) error {
	return svc.repo.DeleteActivitiesByID(context.Background(), ids...)
}

// Grade records a student's marks for an activity.
// Marks exceeding the activity's total are rejected before anything is stored.
func (svc *service) Grade(gi GradeInput, gradedBy string) (Submission, error) {
	ctx := context.Background()

	act, err := svc.repo.GetActivityByID(ctx, gi.ActivityID)
	if err != nil {
		return Submission{}, err
	}
	if gi.ObtainedMarks > act.TotalMarks {
		return Submission{}, core.NewValidationError(
			errMarksExceedTotal,
			core.FieldError{Field: "obtained_marks", Error: errMarksExceedTotal.Error()},
		)
	}

	now := time.Now().UTC()
	obtained := gi.ObtainedMarks
	sub := Submission{
		ActivityID:    gi.ActivityID,
		StudentID:     gi.StudentID,
		ObtainedMarks: &obtained,
		GradedBy:      gradedBy,
		SubmittedAt:   now,
		GradedAt:      now,
	}
	sub, err = svc.repo.CreateSubmission(ctx, sub)
	if err != nil {
		if err == ErrSubmissionExists {
			return Submission{}, core.NewConflictError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return Submission{}, err
	}
	return sub, nil
}

func (svc *service) QuerySubmissions(activityID string) ([]Submission, error) {
	return svc.repo.QuerySubmissions(context.Background(), activityID)
}

func (svc *service) ClassSummary(classID string) (GradeSummary, error) {
	scores, err := svc.repo.QueryClassScores(context.Background(), classID)
	if err != nil {
		return GradeSummary{}, err
	}
	return Summarize(scores), nil
}
