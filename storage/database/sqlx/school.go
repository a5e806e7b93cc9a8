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

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/school"
)

type (
	dbProgram struct {
		ID          string      `db:"id"`
		Name        string      `db:"name"`
		Description null.String `db:"description"`
		CreatedAt   null.Time   `db:"created_at"`
		UpdatedAt   null.Time   `db:"updated_at"`
	}

	dbClass struct {
		ID        string      `db:"id"`
		Name      string      `db:"name"`
		ProgramID string      `db:"program_id"`
		TeacherID null.String `db:"teacher_id"`
		CreatedAt null.Time   `db:"created_at"`
		UpdatedAt null.Time   `db:"updated_at"`
	}

	dbCalendarLink struct {
		ID        string    `db:"id"`
		ClassID   string    `db:"class_id"`
		URL       string    `db:"url"`
		CreatedAt null.Time `db:"created_at"`
	}

	dbTeacher struct {
		ID        string      `db:"id"`
		UserID    string      `db:"user_id"`
		StaffNo   string      `db:"staff_no"`
		Specialty null.String `db:"specialty"`
		CreatedAt null.Time   `db:"created_at"`
		UpdatedAt null.Time   `db:"updated_at"`
	}
)

func (p dbProgram) toCore() school.Program {
	return school.Program{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description.String,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (c dbClass) toCore() school.Class {
	return school.Class{
		ID:        c.ID,
		Name:      c.Name,
		ProgramID: c.ProgramID,
		TeacherID: c.TeacherID.String,
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}
}

func (cal dbCalendarLink) toCore() school.CalendarLink {
	return school.CalendarLink{
		ID:        cal.ID,
		ClassID:   cal.ClassID,
		URL:       cal.URL,
		CreatedAt: cal.CreatedAt.Time,
	}
}

func (t dbTeacher) toCore() school.Teacher {
	return school.Teacher{
		ID:        t.ID,
		UserID:    t.UserID,
		StaffNo:   t.StaffNo,
		Specialty: t.Specialty.String,
		CreatedAt: t.CreatedAt.Time,
		UpdatedAt: t.UpdatedAt.Time,
	}
}

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sql.DB) *schoolRepository {
	return &schoolRepository{db: sqlx.NewDb(db, "postgres")}
}

// Programs

func (repo schoolRepository) CheckProgramUniqueness(ctx context.Context, name string, excluded ...school.Program) error {
	query := `SELECT EXISTS (SELECT 1 FROM program WHERE LOWER(name) = LOWER($1)`
	args := []interface{}{name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, p := range excluded {
			ids = append(ids, p.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pq.StringArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking program uniqueness")
	}
	if exists {
		return school.ErrProgramExists
	}
	return nil
}

func (repo schoolRepository) CreateProgram(ctx context.Context, prog school.Program) (school.Program, error) {
	prog.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO program (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		prog.ID, prog.Name, prog.Description, prog.CreatedAt, prog.UpdatedAt,
	)
	if err != nil {
		return school.Program{}, errors.Wrap(err, "inserting program")
	}
	return prog, nil
}

func (repo schoolRepository) GetProgramByID(ctx context.Context, id string) (school.Program, error) {
	var p dbProgram
	if err := repo.db.GetContext(ctx, &p, `SELECT * FROM program WHERE id = $1`, id); err != nil {
		return school.Program{}, trapNoRowsErr(err, school.ErrProgramNotFound, "finding program by ID")
	}
	return p.toCore(), nil
}

func (repo schoolRepository) QueryPrograms(ctx context.Context, ordering []core.DBOrdering) ([]school.Program, error) {
	var rows []dbProgram
	query := `SELECT * FROM program` + orderBy(ordering, "name ASC")
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	progs := make([]school.Program, 0, len(rows))
	for _, p := range rows {
		progs = append(progs, p.toCore())
	}
	return progs, nil
}

func (repo schoolRepository) UpdateProgram(ctx context.Context, prog school.Program) (school.Program, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE program SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		prog.Name, prog.Description, prog.ID,
	)
	if err != nil {
		return school.Program{}, errors.Wrap(err, "updating program")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Program{}, school.ErrProgramNotFound
	}
	return repo.GetProgramByID(ctx, prog.ID)
}

func (repo schoolRepository) DeleteProgramsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM program WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting programs")
}

// Classes

func (repo schoolRepository) CheckClassUniqueness(ctx context.Context, name, programID string, excluded ...school.Class) error {
	query := `SELECT EXISTS (SELECT 1 FROM class WHERE LOWER(name) = LOWER($1) AND program_id = $2`
	args := []interface{}{name, programID}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, c := range excluded {
			ids = append(ids, c.ID)
		}
		query += ` AND NOT (id = ANY($3))`
		args = append(args, pq.StringArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking class uniqueness")
	}
	if exists {
		return school.ErrClassExists
	}
	return nil
}

func (repo schoolRepository) CreateClassWithCalendar(ctx context.Context, cls school.Class, cal school.CalendarLink) (school.Class, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "beginning tx")
	}
	var exec core.DBTransactor = tx

	_, err = exec.ExecContext(ctx,
		`INSERT INTO class (id, name, program_id, teacher_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		cls.ID, cls.Name, cls.ProgramID, null.NewString(cls.TeacherID, cls.TeacherID != ""), cls.CreatedAt, cls.UpdatedAt,
	)
	if err != nil {
		_ = exec.Rollback()
		return school.Class{}, errors.Wrap(err, "inserting class")
	}

	_, err = exec.ExecContext(ctx,
		`INSERT INTO calendar_link (id, class_id, url, created_at) VALUES ($1, $2, $3, $4)`,
		cal.ID, cal.ClassID, cal.URL, cal.CreatedAt,
	)
	if err != nil {
		_ = exec.Rollback()
		return school.Class{}, errors.Wrap(err, "inserting calendar link")
	}

	if err = exec.Commit(); err != nil {
		return school.Class{}, errors.Wrap(err, "committing tx")
	}
	return cls, nil
}

func (repo schoolRepository) GetClassByID(ctx context.Context, id string) (school.Class, error) {
	var c dbClass
	if err := repo.db.GetContext(ctx, &c, `SELECT * FROM class WHERE id = $1`, id); err != nil {
		return school.Class{}, trapNoRowsErr(err, school.ErrClassNotFound, "finding class by ID")
	}
	return c.toCore(), nil
}

func (repo schoolRepository) GetCalendarLinkByClassID(ctx context.Context, classID string) (school.CalendarLink, error) {
	var cal dbCalendarLink
	if err := repo.db.GetContext(ctx, &cal, `SELECT * FROM calendar_link WHERE class_id = $1`, classID); err != nil {
		return school.CalendarLink{}, trapNoRowsErr(err, school.ErrClassNotFound, "finding calendar link")
	}
	return cal.toCore(), nil
}

func (repo schoolRepository) QueryClasses(ctx context.Context, filter *school.ClassFilter, ordering []core.DBOrdering) ([]school.Class, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			conds = append(conds, "name ILIKE "+arg("%"+filter.Search+"%"))
		}
		if filter.ProgramID != "" {
			conds = append(conds, "program_id = "+arg(filter.ProgramID))
		}
		if filter.TeacherID != "" {
			conds = append(conds, "teacher_id = "+arg(filter.TeacherID))
		}
	}

	query := `SELECT * FROM class`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(ordering, "name ASC")

	var rows []dbClass
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]school.Class, 0, len(rows))
	for _, c := range rows {
		classes = append(classes, c.toCore())
	}
	return classes, nil
}

func (repo schoolRepository) UpdateClass(ctx context.Context, cls school.Class) (school.Class, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE class SET name = $1, teacher_id = $2, updated_at = NOW() WHERE id = $3`,
		cls.Name, null.NewString(cls.TeacherID, cls.TeacherID != ""), cls.ID,
	)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "updating class")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Class{}, school.ErrClassNotFound
	}
	return repo.GetClassByID(ctx, cls.ID)
}

func (repo schoolRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting classes")
}

// Teachers

func (repo schoolRepository) CheckTeacherUniqueness(ctx context.Context, userID, staffNo string, excluded ...school.Teacher) error {
	query := `SELECT EXISTS (SELECT 1 FROM teacher WHERE (user_id = $1 OR staff_no = $2)`
	args := []interface{}{userID, staffNo}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, t := range excluded {
			ids = append(ids, t.ID)
		}
		query += ` AND NOT (id = ANY($3))`
		args = append(args, pq.StringArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking teacher uniqueness")
	}
	if exists {
		return school.ErrTeacherExists
	}
	return nil
}

func (repo schoolRepository) CreateTeacher(ctx context.Context, tchr school.Teacher) (school.Teacher, error) {
	tchr.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO teacher (id, user_id, staff_no, specialty, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		tchr.ID, tchr.UserID, tchr.StaffNo, tchr.Specialty, tchr.CreatedAt, tchr.UpdatedAt,
	)
	if err != nil {
		return school.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tchr, nil
}

func (repo schoolRepository) GetTeacherByID(ctx context.Context, id string) (school.Teacher, error) {
	var t dbTeacher
	if err := repo.db.GetContext(ctx, &t, `SELECT * FROM teacher WHERE id = $1`, id); err != nil {
		return school.Teacher{}, trapNoRowsErr(err, school.ErrTeacherNotFound, "finding teacher by ID")
	}
	return t.toCore(), nil
}

func (repo schoolRepository) GetTeacherByUserID(ctx context.Context, userID string) (school.Teacher, error) {
	var t dbTeacher
	if err := repo.db.GetContext(ctx, &t, `SELECT * FROM teacher WHERE user_id = $1`, userID); err != nil {
		return school.Teacher{}, trapNoRowsErr(err, school.ErrTeacherNotFound, "finding teacher by user ID")
	}
	return t.toCore(), nil
}

func (repo schoolRepository) QueryTeachers(ctx context.Context, ordering []core.DBOrdering) ([]school.Teacher, error) {
	var rows []dbTeacher
	query := `SELECT * FROM teacher` + orderBy(ordering, "staff_no ASC")
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]school.Teacher, 0, len(rows))
	for _, t := range rows {
		teachers = append(teachers, t.toCore())
	}
	return teachers, nil
}

func (repo schoolRepository) UpdateTeacher(ctx context.Context, tchr school.Teacher) (school.Teacher, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE teacher SET staff_no = $1, specialty = $2, updated_at = NOW() WHERE id = $3`,
		tchr.StaffNo, tchr.Specialty, tchr.ID,
	)
	if err != nil {
		return school.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Teacher{}, school.ErrTeacherNotFound
	}
	return repo.GetTeacherByID(ctx, tchr.ID)
}

func (repo schoolRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM teacher WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting teachers")
}
