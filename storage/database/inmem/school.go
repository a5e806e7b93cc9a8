package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

// Programs

func (repo *schoolRepository) CheckProgramUniqueness(_ context.Context, name string, excluded ...school.Program) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prog := range repo.db.programs {
		if programExcluded(*prog, excluded) {
			continue
		}
		if strings.EqualFold(prog.Name, name) {
			return school.ErrProgramExists
		}
	}
	return nil
}

func programExcluded(prog school.Program, excluded []school.Program) bool {
	for _, ex := range excluded {
		if prog.ID == ex.ID {
			return true
		}
	}
	return false
}

func (repo *schoolRepository) CreateProgram(_ context.Context, prog school.Program) (school.Program, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prog.ID = uuid.New().String()
	repo.db.programs[prog.ID] = &prog
	return prog, nil
}

func (repo *schoolRepository) GetProgramByID(_ context.Context, id string) (school.Program, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prog, ok := repo.db.programs[id]; ok {
		return *prog, nil
	}
	return school.Program{}, school.ErrProgramNotFound
}

func (repo *schoolRepository) QueryPrograms(_ context.Context, _ []core.DBOrdering) ([]school.Program, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	progs := make([]school.Program, 0, len(repo.db.programs))
	for _, prog := range repo.db.programs {
		progs = append(progs, *prog)
	}
	sort.Slice(progs, func(i, j int) bool { return progs[i].Name < progs[j].Name })
	return progs, nil
}

func (repo *schoolRepository) UpdateProgram(_ context.Context, prog school.Program) (school.Program, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	curr, ok := repo.db.programs[prog.ID]
	if !ok {
		return school.Program{}, school.ErrProgramNotFound
	}
	if prog.Name != "" {
		curr.Name = prog.Name
	}
	if prog.Description != "" {
		curr.Description = prog.Description
	}
	if !prog.UpdatedAt.IsZero() {
		curr.UpdatedAt = prog.UpdatedAt
	}
	return *curr, nil
}

func (repo *schoolRepository) DeleteProgramsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.programs, id)
	}
	return nil
}

// Classes

func (repo *schoolRepository) CheckClassUniqueness(_ context.Context, name, programID string, excluded ...school.Class) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, cls := range repo.db.classes {
		if classExcluded(*cls, excluded) {
			continue
		}
		if cls.ProgramID == programID && strings.EqualFold(cls.Name, name) {
			return school.ErrClassExists
		}
	}
	return nil
}

func classExcluded(cls school.Class, excluded []school.Class) bool {
	for _, ex := range excluded {
		if cls.ID == ex.ID {
			return true
		}
	}
	return false
}

func (repo *schoolRepository) CreateClassWithCalendar(_ context.Context, cls school.Class, cal school.CalendarLink) (school.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.classes[cls.ID] = &cls
	repo.db.calendars[cal.ID] = &cal
	return cls, nil
}

func (repo *schoolRepository) GetClassByID(_ context.Context, id string) (school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return *cls, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) GetCalendarLinkByClassID(_ context.Context, classID string) (school.CalendarLink, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, cal := range repo.db.calendars {
		if cal.ClassID == classID {
			return *cal, nil
		}
	}
	return school.CalendarLink{}, school.ErrClassNotFound
}

func (repo *schoolRepository) QueryClasses(_ context.Context, filter *school.ClassFilter, _ []core.DBOrdering) ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0, len(repo.db.classes))
	for _, cls := range repo.db.classes {
		if filter != nil {
			if filter.Search != "" && !strings.Contains(strings.ToLower(cls.Name), strings.ToLower(filter.Search)) {
				continue
			}
			if filter.ProgramID != "" && cls.ProgramID != filter.ProgramID {
				continue
			}
			if filter.TeacherID != "" && cls.TeacherID != filter.TeacherID {
				continue
			}
		}
		classes = append(classes, *cls)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *schoolRepository) UpdateClass(_ context.Context, cls school.Class) (school.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	curr, ok := repo.db.classes[cls.ID]
	if !ok {
		return school.Class{}, school.ErrClassNotFound
	}
	if cls.Name != "" {
		curr.Name = cls.Name
	}
	if cls.TeacherID != "" {
		curr.TeacherID = cls.TeacherID
	}
	if !cls.UpdatedAt.IsZero() {
		curr.UpdatedAt = cls.UpdatedAt
	}
	return *curr, nil
}

func (repo *schoolRepository) DeleteClassesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.classes, id)
		for calID, cal := range repo.db.calendars {
			if cal.ClassID == id {
				delete(repo.db.calendars, calID)
			}
		}
	}
	return nil
}

// Teachers

func (repo *schoolRepository) CheckTeacherUniqueness(_ context.Context, userID, staffNo string, excluded ...school.Teacher) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tchr := range repo.db.teachers {
		if teacherExcluded(*tchr, excluded) {
			continue
		}
		if tchr.UserID == userID || strings.EqualFold(tchr.StaffNo, staffNo) {
			return school.ErrTeacherExists
		}
	}
	return nil
}

func teacherExcluded(tchr school.Teacher, excluded []school.Teacher) bool {
	for _, ex := range excluded {
		if tchr.ID == ex.ID {
			return true
		}
	}
	return false
}

func (repo *schoolRepository) CreateTeacher(_ context.Context, tchr school.Teacher) (school.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tchr.ID = uuid.New().String()
	repo.db.teachers[tchr.ID] = &tchr
	return tchr, nil
}

func (repo *schoolRepository) GetTeacherByID(_ context.Context, id string) (school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tchr, ok := repo.db.teachers[id]; ok {
		return *tchr, nil
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

func (repo *schoolRepository) GetTeacherByUserID(_ context.Context, userID string) (school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tchr := range repo.db.teachers {
		if tchr.UserID == userID {
			return *tchr, nil
		}
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

func (repo *schoolRepository) QueryTeachers(_ context.Context, _ []core.DBOrdering) ([]school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]school.Teacher, 0, len(repo.db.teachers))
	for _, tchr := range repo.db.teachers {
		teachers = append(teachers, *tchr)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].StaffNo < teachers[j].StaffNo })
	return teachers, nil
}

func (repo *schoolRepository) UpdateTeacher(_ context.Context, tchr school.Teacher) (school.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	curr, ok := repo.db.teachers[tchr.ID]
	if !ok {
		return school.Teacher{}, school.ErrTeacherNotFound
	}
	if tchr.StaffNo != "" {
		curr.StaffNo = tchr.StaffNo
	}
	if tchr.Specialty != "" {
		curr.Specialty = tchr.Specialty
	}
	if !tchr.UpdatedAt.IsZero() {
		curr.UpdatedAt = tchr.UpdatedAt
	}
	return *curr, nil
}

func (repo *schoolRepository) DeleteTeachersByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.teachers, id)
	}
	return nil
}
