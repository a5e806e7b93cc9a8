package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/gradebook"
)

type (
	dbActivity struct {
		ID         string    `db:"id"`
		ClassID    string    `db:"class_id"`
		Name       string    `db:"name"`
		TotalMarks float64   `db:"total_marks"`
		DueDate    null.Time `db:"due_date"`
		CreatedAt  null.Time `db:"created_at"`
		UpdatedAt  null.Time `db:"updated_at"`
	}

	dbSubmission struct {
		ID            string       `db:"id"`
		ActivityID    string       `db:"activity_id"`
		StudentID     string       `db:"student_id"`
		ObtainedMarks null.Float64 `db:"obtained_marks"`
		GradedBy      null.String  `db:"graded_by"`
		SubmittedAt   null.Time    `db:"submitted_at"`
		GradedAt      null.Time    `db:"graded_at"`
	}

	dbScore struct {
		Obtained null.Float64 `db:"obtained"`
		Total    float64      `db:"total"`
	}
)

func (a dbActivity) toCore() gradebook.Activity {
	return gradebook.Activity{
		ID:         a.ID,
		ClassID:    a.ClassID,
		Name:       a.Name,
		TotalMarks: a.TotalMarks,
		DueDate:    a.DueDate.Time,
		CreatedAt:  a.CreatedAt.Time,
		UpdatedAt:  a.UpdatedAt.Time,
	}
}

func (s dbSubmission) toCore() gradebook.Submission {
	return gradebook.Submission{
		ID:            s.ID,
		ActivityID:    s.ActivityID,
		StudentID:     s.StudentID,
		ObtainedMarks: s.ObtainedMarks.Ptr(),
		GradedBy:      s.GradedBy.String,
		SubmittedAt:   s.SubmittedAt.Time,
		GradedAt:      s.GradedAt.Time,
	}
}

type gradebookRepository struct {
	db *sqlx.DB
}

var _ gradebook.Repository = (*gradebookRepository)(nil) // interface compliance check

func NewGradebookRepository(db *sql.DB) *gradebookRepository {
	return &gradebookRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo gradebookRepository) CheckActivityUniqueness(ctx context.Context, classID, name string, excluded ...gradebook.Activity) error {
	query := `SELECT EXISTS (SELECT 1 FROM activity WHERE class_id = $1 AND LOWER(name) = LOWER($2)`
	args := []interface{}{classID, name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, a := range excluded {
			ids = append(ids, a.ID)
		}
		query += ` AND NOT (id = ANY($3))`
		args = append(args, pq.StringArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking activity uniqueness")
	}
	if exists {
		return gradebook.ErrActivityExists
	}
	return nil
}

func (repo gradebookRepository) CreateActivity(ctx context.Context, act gradebook.Activity) (gradebook.Activity, error) {
	act.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO activity (id, class_id, name, total_marks, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		act.ID, act.ClassID, act.Name, act.TotalMarks,
		null.NewTime(act.DueDate, !act.DueDate.IsZero()), act.CreatedAt, act.UpdatedAt,
	)
	if err != nil {
		return gradebook.Activity{}, errors.Wrap(err, "inserting activity")
	}
	return act, nil
}

func (repo gradebookRepository) GetActivityByID(ctx context.Context, id string) (gradebook.Activity, error) {
	var a dbActivity
	if err := repo.db.GetContext(ctx, &a, `SELECT * FROM activity WHERE id = $1`, id); err != nil {
		return gradebook.Activity{}, trapNoRowsErr(err, gradebook.ErrActivityNotFound, "finding activity by ID")
	}
	return a.toCore(), nil
}

func (repo gradebookRepository) QueryActivities(ctx context.Context, classID string, ordering []core.DBOrdering) ([]gradebook.Activity, error) {
	var rows []dbActivity
	query := `SELECT * FROM activity WHERE class_id = $1` + orderBy(ordering, "created_at DESC")
	if err := repo.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	acts := make([]gradebook.Activity, 0, len(rows))
	for _, a := range rows {
		acts = append(acts, a.toCore())
	}
	return acts, nil
}

func (repo gradebookRepository) DeleteActivitiesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM activity WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting activities")
}

func (repo gradebookRepository) CreateSubmission(ctx context.Context, sub gradebook.Submission) (gradebook.Submission, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM submission WHERE activity_id = $1 AND student_id = $2)`,
		sub.ActivityID, sub.StudentID)
	if err != nil {
		return gradebook.Submission{}, errors.Wrap(err, "checking submission uniqueness")
	}
	if exists {
		return gradebook.Submission{}, gradebook.ErrSubmissionExists
	}

	sub.ID = uuid.New().String()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO submission (id, activity_id, student_id, obtained_marks, graded_by, submitted_at, graded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.ActivityID, sub.StudentID, null.Float64FromPtr(sub.ObtainedMarks),
		null.NewString(sub.GradedBy, sub.GradedBy != ""), sub.SubmittedAt,
		null.NewTime(sub.GradedAt, !sub.GradedAt.IsZero()),
	)
	if err != nil {
		return gradebook.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo gradebookRepository) QuerySubmissions(ctx context.Context, activityID string) ([]gradebook.Submission, error) {
	var rows []dbSubmission
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM submission WHERE activity_id = $1 ORDER BY submitted_at ASC`, activityID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]gradebook.Submission, 0, len(rows))
	for _, s := range rows {
		subs = append(subs, s.toCore())
	}
	return subs, nil
}

func (repo gradebookRepository) QueryClassScores(ctx context.Context, classID string) ([]gradebook.Score, error) {
	var rows []dbScore
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT s.obtained_marks AS obtained, a.total_marks AS total
		 FROM submission s JOIN activity a ON a.id = s.activity_id
		 WHERE a.class_id = $1`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class scores")
	}
	scores := make([]gradebook.Score, 0, len(rows))
	for _, s := range rows {
		scores = append(scores, gradebook.Score{Obtained: s.Obtained.Ptr(), Total: s.Total})
	}
	return scores, nil
}
