package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/school"
	"github.com/trezcool/shuleni/core/user"
)

var errNotATeacher = "this user does not carry a teacher role"

type schoolApi struct {
	svc      school.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc school.Service, usrSvc user.Service, validate *validator.Validate) {
	api := schoolApi{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	pg := g.Group("/programs", jwt)
	pg.POST("", api.createProgram, permissionMiddleware(user.PermManagePrograms))
	pg.GET("", api.queryPrograms)
	pg.DELETE("", api.destroyPrograms, permissionMiddleware(user.PermManagePrograms))
	pg.GET("/:id", api.retrieveProgram)
	pg.PUT("/:id", api.updateProgram, permissionMiddleware(user.PermManagePrograms))

	cg := g.Group("/classes", jwt)
	cg.POST("", api.createClass, permissionMiddleware(user.PermManageClasses))
	cg.GET("", api.queryClasses)
	cg.DELETE("", api.destroyClasses, permissionMiddleware(user.PermManageClasses))
	cg.GET("/:id", api.retrieveClass)
	cg.GET("/:id/calendar", api.retrieveClassCalendar)
	cg.PUT("/:id", api.updateClass, permissionMiddleware(user.PermManageClasses))

	tg := g.Group("/teachers", jwt)
	tg.POST("", api.createTeacher, permissionMiddleware(user.PermManageTeachers))
	tg.GET("", api.queryTeachers)
	tg.DELETE("", api.destroyTeachers, permissionMiddleware(user.PermManageTeachers))
	tg.GET("/:id", api.retrieveTeacher)
	tg.PUT("/:id", api.updateTeacher, permissionMiddleware(user.PermManageTeachers))
}

// Programs

func (api *schoolApi) createProgram(ctx echo.Context) error {
	var data school.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	prog, err := api.svc.CreateProgram(data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, prog)
}

func (api *schoolApi) queryPrograms(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	progs, err := api.svc.QueryPrograms(ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	if progs == nil {
		progs = []school.Program{}
	}
	return ctx.JSON(http.StatusOK, progs)
}

func (api *schoolApi) retrieveProgram(ctx echo.Context) error {
	prog, err := api.svc.GetProgram(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrProgramNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding program by ID")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *schoolApi) updateProgram(ctx echo.Context) error {
	prog, err := api.svc.GetProgram(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrProgramNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding program by ID")
	}

	var data school.UpdateProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProgram")
	}
	if err := data.Validate(prog, api.validate, api.svc); err != nil {
		return err
	}

	prog, err = api.svc.UpdateProgram(prog.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *schoolApi) destroyPrograms(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeletePrograms(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting programs")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Classes

func (api *schoolApi) createClass(ctx echo.Context) error {
	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	if _, err := api.svc.GetProgram(data.ProgramID); err != nil {
		if errors.Cause(err) == school.ErrProgramNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "program_id", Error: school.ErrProgramNotFound.Error()})
		}
		return errors.Wrap(err, "finding program by ID")
	}

	cls, err := api.svc.CreateClass(data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *schoolApi) queryClasses(ctx echo.Context) error {
	filter := new(school.ClassFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []school.Class{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	classes, err := api.svc.QueryClasses(filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []school.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) retrieveClass(ctx echo.Context) error {
	cls, err := api.svc.GetClass(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *schoolApi) retrieveClassCalendar(ctx echo.Context) error {
	cal, err := api.svc.GetClassCalendar(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class calendar")
	}
	return ctx.JSON(http.StatusOK, cal)
}

func (api *schoolApi) updateClass(ctx echo.Context) error {
	cls, err := api.svc.GetClass(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}

	var data school.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(cls, api.validate, api.svc); err != nil {
		return err
	}

	cls, err = api.svc.UpdateClass(cls.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *schoolApi) destroyClasses(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteClasses(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Teachers

func (api *schoolApi) createTeacher(ctx echo.Context) error {
	var data school.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	// the profile must link an existing user carrying a teacher role
	usr, err := api.usrSvc.GetByID(data.UserID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: user.ErrNotFound.Error()})
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if !usr.IsTeacher() {
		return core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: errNotATeacher})
	}

	tchr, err := api.svc.CreateTeacher(data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, tchr)
}

func (api *schoolApi) queryTeachers(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	teachers, err := api.svc.QueryTeachers(ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []school.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *schoolApi) retrieveTeacher(ctx echo.Context) error {
	tchr, err := api.svc.GetTeacher(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrTeacherNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher by ID")
	}
	return ctx.JSON(http.StatusOK, tchr)
}

func (api *schoolApi) updateTeacher(ctx echo.Context) error {
	tchr, err := api.svc.GetTeacher(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrTeacherNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher by ID")
	}

	var data school.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(tchr, api.validate, api.svc); err != nil {
		return err
	}

	tchr, err = api.svc.UpdateTeacher(tchr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tchr)
}

func (api *schoolApi) destroyTeachers(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteTeachers(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting teachers")
	}
	return ctx.NoContent(http.StatusNoContent)
}
