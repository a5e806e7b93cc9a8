package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/gradebook"
	"github.com/trezcool/shuleni/core/user"
)

type gradebookApi struct {
	svc      gradebook.Service
	cache    core.Cache
	validate *validator.Validate
}

func registerGradebookAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc gradebook.Service,
	cache core.Cache,
	validate *validator.Validate,
) {
	api := gradebookApi{
		svc:      svc,
		cache:    cache,
		validate: validate,
	}

	ag := g.Group("/activities", jwt)
	ag.POST("", api.createActivity, permissionMiddleware(user.PermGradeActivity))
	ag.GET("", api.queryActivities, permissionMiddleware(user.PermViewGradebook))
	ag.DELETE("", api.destroyActivities, permissionMiddleware(user.PermGradeActivity))
	ag.GET("/:id", api.retrieveActivity, permissionMiddleware(user.PermViewGradebook))
	ag.GET("/:id/submissions", api.querySubmissions, permissionMiddleware(user.PermViewGradebook))

	gg := g.Group("/grades", jwt)
	gg.POST("", api.grade, permissionMiddleware(user.PermGradeActivity))

	g.GET("/classes/:id/gradebook", api.classSummary, jwt, permissionMiddleware(user.PermViewGradebook))
}

// Handlers

func (api *gradebookApi) createActivity(ctx echo.Context) error {
	var data gradebook.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	act, err := api.svc.CreateActivity(data)
	if err != nil {
		return errors.Wrap(err, "creating activity")
	}
	return ctx.JSON(http.StatusCreated, act)
}

func (api *gradebookApi) queryActivities(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	activities, err := api.svc.QueryActivities(ctx.QueryParam("class_id"), ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	if activities == nil {
		activities = []gradebook.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

func (api *gradebookApi) retrieveActivity(ctx echo.Context) error {
	act, err := api.svc.GetActivity(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == gradebook.ErrActivityNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding activity by ID")
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *gradebookApi) destroyActivities(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteActivities(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting activities")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// grade records a student's marks for an activity; the grader is the session
// user.
func (api *gradebookApi) grade(ctx echo.Context) error {
	var data gradebook.GradeInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sub, err := api.svc.Grade(data, claims.Subject)
	if err != nil {
		if errors.Cause(err) == gradebook.ErrActivityNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *gradebookApi) querySubmissions(ctx echo.Context) error {
	if _, err := api.svc.GetActivity(ctx.Param("id")); err != nil {
		if errors.Cause(err) == gradebook.ErrActivityNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding activity by ID")
	}

	subs, err := api.svc.QuerySubmissions(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []gradebook.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

// classSummary serves the class grade aggregate through the statistics cache;
// entries are keyed per requester and expire on the cache's TTL.
func (api *gradebookApi) classSummary(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	classID := ctx.Param("id")
	key := core.StatsKey(claims.Subject, "gradebook-summary:"+classID)
	if payload, ok := api.cache.Get(key); ok {
		return ctx.JSON(http.StatusOK, payload)
	}

	summary, err := api.svc.ClassSummary(classID)
	if err != nil {
		return errors.Wrap(err, "summarizing class grades")
	}
	api.cache.Put(key, summary)
	return ctx.JSON(http.StatusOK, summary)
}
