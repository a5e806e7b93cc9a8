package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shuleni/core/attendance"
)

type dbRecord struct {
	ID         string      `db:"id"`
	ClassID    string      `db:"class_id"`
	StudentID  string      `db:"student_id"`
	Date       null.Time   `db:"date"`
	Present    bool        `db:"present"`
	RecordedBy null.String `db:"recorded_by"`
	CreatedAt  null.Time   `db:"created_at"`
}

func (r dbRecord) toCore() attendance.Record {
	return attendance.Record{
		ID:         r.ID,
		ClassID:    r.ClassID,
		StudentID:  r.StudentID,
		Date:       r.Date.Time,
		Present:    r.Present,
		RecordedBy: r.RecordedBy.String,
		CreatedAt:  r.CreatedAt.Time,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sql.DB) *attendanceRepository {
	return &attendanceRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM attendance_record WHERE class_id = $1 AND student_id = $2 AND date = $3)`,
		rec.ClassID, rec.StudentID, rec.Date)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "checking attendance uniqueness")
	}
	if exists {
		return attendance.Record{}, attendance.ErrRecordExists
	}

	rec.ID = uuid.New().String()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO attendance_record (id, class_id, student_id, date, present, recorded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.ClassID, rec.StudentID, rec.Date, rec.Present,
		null.NewString(rec.RecordedBy, rec.RecordedBy != ""), rec.CreatedAt,
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter) ([]attendance.Record, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.ClassID != "" {
			conds = append(conds, "class_id = "+arg(filter.ClassID))
		}
		if filter.StudentID != "" {
			conds = append(conds, "student_id = "+arg(filter.StudentID))
		}
		if !filter.DateFrom.IsZero() {
			conds = append(conds, "date >= "+arg(filter.DateFrom))
		}
		if !filter.DateTo.IsZero() {
			conds = append(conds, "date <= "+arg(filter.DateTo))
		}
	}

	query := `SELECT * FROM attendance_record`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date ASC`

	var rows []dbRecord
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toCore())
	}
	return records, nil
}

func (repo attendanceRepository) DeleteRecordsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM attendance_record WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting attendance records")
}
