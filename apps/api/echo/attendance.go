package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/attendance"
	"github.com/trezcool/shuleni/core/user"
)

type attendanceApi struct {
	svc      attendance.Service
	cache    core.Cache
	validate *validator.Validate
}

func registerAttendanceAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc attendance.Service,
	cache core.Cache,
	validate *validator.Validate,
) {
	api := attendanceApi{
		svc:      svc,
		cache:    cache,
		validate: validate,
	}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.record, permissionMiddleware(user.PermRecordAttendance))
	ag.POST("/sheet", api.recordSheet, permissionMiddleware(user.PermRecordAttendance))
	ag.GET("", api.query, permissionMiddleware(user.PermViewAttendance))

	g.GET("/classes/:id/attendance/weekly", api.weeklyStats, jwt, permissionMiddleware(user.PermViewAttendance))
}

// Handlers

func (api *attendanceApi) record(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rec, err := api.svc.Record(data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) recordSheet(ctx echo.Context) error {
	var data attendance.NewSheet
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSheet")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	records, err := api.svc.RecordSheet(data, claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, records)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Record{})
	}

	records, err := api.svc.Query(filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

// weeklyStats serves per-ISO-week attendance percentages through the
// statistics cache.
func (api *attendanceApi) weeklyStats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	classID := ctx.Param("id")
	from, to, err := bindDateRange(ctx)
	if err != nil {
		return err
	}

	key := core.StatsKey(claims.Subject, "attendance-weekly:"+classID+":"+ctx.QueryParam("date_from")+":"+ctx.QueryParam("date_to"))
	if payload, ok := api.cache.Get(key); ok {
		return ctx.JSON(http.StatusOK, payload)
	}

	stats, err := api.svc.WeeklyStats(classID, from, to)
	if err != nil {
		return errors.Wrap(err, "aggregating weekly attendance")
	}
	api.cache.Put(key, stats)
	return ctx.JSON(http.StatusOK, stats)
}

func bindDateRange(ctx echo.Context) (from, to time.Time, err error) {
	parse := func(field string) (time.Time, error) {
		val := ctx.QueryParam(field)
		if val == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: field, Error: "invalid timestamp; RFC3339 expected"})
		}
		return t, nil
	}

	if from, err = parse("date_from"); err != nil {
		return
	}
	to, err = parse("date_to")
	return
}
