package school

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shuleni/core"
)

var (
	// errors
	ErrProgramNotFound = errors.New("program not found")
	ErrProgramExists   = errors.New("a program with this name already exists")
	ErrClassNotFound   = errors.New("class not found")
	ErrClassExists     = errors.New("a class with this name already exists in this program")
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrTeacherExists   = errors.New("a teacher profile already exists for this user or staff number")
)

type (
	Repository interface {
		CheckProgramUniqueness(ctx context.Context, name string, excluded ...Program) error
		CreateProgram(ctx context.Context, prog Program) (Program, error)
		GetProgramByID(ctx context.Context, id string) (Program, error)
		QueryPrograms(ctx context.Context, ordering []core.DBOrdering) ([]Program, error)
		UpdateProgram(ctx context.Context, prog Program) (Program, error)
		DeleteProgramsByID(ctx context.Context, ids ...string) error

		CheckClassUniqueness(ctx context.Context, name, programID string, excluded ...Class) error
		// CreateClassWithCalendar inserts the class and its calendar link
		// atomically; neither row may exist without the other.
		CreateClassWithCalendar(ctx context.Context, cls Class, cal CalendarLink) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		GetCalendarLinkByClassID(ctx context.Context, classID string) (CalendarLink, error)
		// QueryClasses applies AND operation on available ClassFilter fields.
		// ClassFilter.Search does a case-insensitive match on Class.Name.
		QueryClasses(ctx context.Context, filter *ClassFilter, ordering []core.DBOrdering) ([]Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		DeleteClassesByID(ctx context.Context, ids ...string) error

		CheckTeacherUniqueness(ctx context.Context, userID, staffNo string, excluded ...Teacher) error
		CreateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID string) (Teacher, error)
		QueryTeachers(ctx context.Context, ordering []core.DBOrdering) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckProgramUniqueness(name string, excluded ...Program) error
		CreateProgram(np NewProgram) (Program, error)
		GetProgram(id string) (Program, error)
		QueryPrograms(ordering []core.DBOrdering) ([]Program, error)
		UpdateProgram(id string, up UpdateProgram) (Program, error)
		DeletePrograms(ids ...string) error

		CheckClassUniqueness(name, programID string, excluded ...Class) error
		CreateClass(nc NewClass) (Class, error)
		GetClass(id string) (Class, error)
		GetClassCalendar(classID string) (CalendarLink, error)
		QueryClasses(filter *ClassFilter, ordering []core.DBOrdering) ([]Class, error)
		UpdateClass(id string, uc UpdateClass) (Class, error)
		DeleteClasses(ids ...string) error

		CheckTeacherUniqueness(userID, staffNo string, excluded ...Teacher) error
		CreateTeacher(nt NewTeacher) (Teacher, error)
		GetTeacher(id string) (Teacher, error)
		QueryTeachers(ordering []core.DBOrdering) ([]Teacher, error)
		UpdateTeacher(id string, ut UpdateTeacher) (Teacher, error)
		DeleteTeachers(ids ...string) error
	}

	service struct {
		repo Repository
		conf *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, conf *core.Config) Service {
	return &service{repo: repo, conf: conf}
}

// Programs

func (svc *service) CheckProgramUniqueness(name string, excluded ...Program) error {
	if err := svc.repo.CheckProgramUniqueness(context.Background(), name, excluded...); err != nil {
		if err == ErrProgramExists {
			return core.NewConflictError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateProgram(np NewProgram) (Program, error) {
	now := time.Now().UTC()
	prog := Program{
		Name:        np.Name,
		Description: np.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateProgram(context.Background(), prog)
}

func (svc *service) GetProgram(id string) (Program, error) {
	return svc.repo.GetProgramByID(context.Background(), id)
}

func (svc *service) QueryPrograms(ordering []core.DBOrdering) ([]Program, error) {
	return svc.repo.QueryPrograms(context.Background(), ordering)
}

func (svc *service) UpdateProgram(id string, up UpdateProgram) (Program, error) {
	prog := Program{
		ID:          id,
		Name:        up.Name,
		Description: up.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateProgram(context.Background(), prog)
}

func (svc *service) DeletePrograms(ids ...string) error {
	return svc.repo.DeleteProgramsByID(context.Background(), ids...)
}

// Classes

func (svc *service) CheckClassUniqueness(name, programID string, excluded ...Class) error {
	if err := svc.repo.CheckClassUniqueness(context.Background(), name, programID, excluded...); err != nil {
		if err == ErrClassExists {
			return core.NewConflictError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

// CreateClass creates the class and its calendar link as one atomic entity
// group; a class must never exist without its calendar.
func (svc *service) CreateClass(nc NewClass) (Class, error) {
	now := time.Now().UTC()
	cls := Class{
		ID:        uuid.New().String(),
		Name:      nc.Name,
		ProgramID: nc.ProgramID,
		TeacherID: nc.TeacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	calURL := nc.CalendarURL
	if calURL == "" {
		calURL = fmt.Sprintf("%s/calendar/%s", svc.conf.FrontendBaseURL, cls.ID)
	}
	cal := CalendarLink{
		ID:        uuid.New().String(),
		ClassID:   cls.ID,
		URL:       calURL,
		CreatedAt: now,
	}

	cls, err := svc.repo.CreateClassWithCalendar(context.Background(), cls, cal)
	if err != nil {
		return Class{}, pkgerrors.Wrap(err, "creating class with calendar")
	}
	return cls, nil
}

func (svc *service) GetClass(id string) (Class, error) {
	return svc.repo.GetClassByID(context.Background(), id)
}

func (svc *service) GetClassCalendar(classID string) (CalendarLink, error) {
	return svc.repo.GetCalendarLinkByClassID(context.Background(), classID)
}

func (svc *service) QueryClasses(filter *ClassFilter, ordering []core.DBOrdering) ([]Class, error) {
	return svc.repo.QueryClasses(context.Background(), filter, ordering)
}

func (svc *service) UpdateClass(id string, uc UpdateClass) (Class, error) {
	cls := Class{
		ID:        id,
		Name:      uc.Name,
		TeacherID: uc.TeacherID,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateClass(context.Background(), cls)
}

func (svc *service) DeleteClasses(ids ...string) error {
	return svc.repo.DeleteClassesByID(context.Background(), ids...)
}

// Teachers

func (svc *service) CheckTeacherUniqueness(userID, staffNo string, excluded ...Teacher) error {
	if err := svc.repo.CheckTeacherUniqueness(context.Background(), userID, staffNo, excluded...); err != nil {
		if err == ErrTeacherExists {
			return core.NewConflictError(err, core.FieldError{Field: "staff_no", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateTeacher(nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	tchr := Teacher{
		UserID:    nt.UserID,
		StaffNo:   nt.StaffNo,
		Specialty: nt.Specialty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTeacher(context.Background(), tchr)
}

func (svc *service) GetTeacher(id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(context.Background(), id)
}

func (svc *service) QueryTeachers(ordering []core.DBOrdering) ([]Teacher, error) {
	return svc.repo.QueryTeachers(context.Background(), ordering)
}

func (svc *service) UpdateTeacher(id string, ut UpdateTeacher) (Teacher, error) {
	tchr := Teacher{
		ID:        id,
		StaffNo:   ut.StaffNo,
		Specialty: ut.Specialty,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateTeacher(context.Background(), tchr)
}

func (svc *service) DeleteTeachers(ids ...string) error {
	return svc.repo.DeleteTeachersByID(context.Background(), ids...)
}
