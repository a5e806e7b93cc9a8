package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shuleni/core"
)

// Program is a course of study (eg. "Sciences", "Humanities") that classes
// belong to.
type Program struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Class is a group of students taught together, optionally assigned to a
// teacher. Every class owns exactly one CalendarLink; the two are created in
// the same transaction.
type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ProgramID string    `json:"program_id"`
	TeacherID string    `json:"teacher_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// CalendarLink points at the shared calendar of a Class.
type CalendarLink struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Teacher is the staff profile of a user carrying a teacher role.
type Teacher struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StaffNo   string    `json:"staff_no"`
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewProgram struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (np *NewProgram) Validate(validate *validator.Validate, svc Service) error {
	np.Name = core.CleanString(np.Name)
	np.Description = core.CleanString(np.Description)

	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.CheckProgramUniqueness(np.Name)
}

type UpdateProgram struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (up *UpdateProgram) Validate(orig Program, validate *validator.Validate, svc Service) error {
	name := core.CleanString(up.Name)
	if name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	desc := core.CleanString(up.Description)
	if desc != "" {
		up.Description = desc
	} else {
		up.Description = orig.Description
	}

	if err := validate.Struct(up); err != nil {
		return err
	}
	return svc.CheckProgramUniqueness(up.Name, orig)
}

type NewClass struct {
	Name        string `json:"name" validate:"required"`
	ProgramID   string `json:"program_id" validate:"required"`
	TeacherID   string `json:"teacher_id"`
	CalendarURL string `json:"calendar_url" validate:"omitempty,url"`
}

func (nc *NewClass) Validate(validate *validator.Validate, svc Service) error {
	nc.Name = core.CleanString(nc.Name)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckClassUniqueness(nc.Name, nc.ProgramID)
}

type UpdateClass struct {
	Name      string `json:"name"`
	TeacherID string `json:"teacher_id"`
}

func (uc *UpdateClass) Validate(orig Class, validate *validator.Validate, svc Service) error {
	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckClassUniqueness(uc.Name, orig.ProgramID, orig)
}

type NewTeacher struct {
	UserID    string `json:"user_id" validate:"required"`
	StaffNo   string `json:"staff_no" validate:"required,alphanum_"`
	Specialty string `json:"specialty"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate, svc Service) error {
	nt.StaffNo = core.CleanString(nt.StaffNo, true /* lower */)
	nt.Specialty = core.CleanString(nt.Specialty)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckTeacherUniqueness(nt.UserID, nt.StaffNo)
}

type UpdateTeacher struct {
	StaffNo   string `json:"staff_no" validate:"omitempty,alphanum_"`
	Specialty string `json:"specialty"`
}

func (ut *UpdateTeacher) Validate(orig Teacher, validate *validator.Validate, svc Service) error {
	staffNo := core.CleanString(ut.StaffNo, true /* lower */)
	if staffNo != "" {
		ut.StaffNo = staffNo
	} else {
		ut.StaffNo = orig.StaffNo
	}
	spec := core.CleanString(ut.Specialty)
	if spec != "" {
		ut.Specialty = spec
	} else {
		ut.Specialty = orig.Specialty
	}

	if err := validate.Struct(ut); err != nil {
		return err
	}
	return svc.CheckTeacherUniqueness(orig.UserID, ut.StaffNo, orig)
}

type ClassFilter struct {
	Search    string `query:"search"`
	ProgramID string `query:"program_id"`
	TeacherID string `query:"teacher_id"`
}

func (cf *ClassFilter) IsEmpty() bool {
	return cf.Search == "" && cf.ProgramID == "" && cf.TeacherID == ""
}

func (cf *ClassFilter) Clean() {
	cf.Search = core.CleanString(cf.Search)
}
