package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/attendance"
	"github.com/trezcool/shuleni/core/gradebook"
	"github.com/trezcool/shuleni/core/user"
)

type dashboardApi struct {
	gradeSvc gradebook.Service
	attSvc   attendance.Service
	cache    core.Cache
}

func registerDashboardAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	gradeSvc gradebook.Service,
	attSvc attendance.Service,
	cache core.Cache,
) {
	api := dashboardApi{
		gradeSvc: gradeSvc,
		attSvc:   attSvc,
		cache:    cache,
	}

	g.GET("/classes/:id/dashboard", api.classDashboard, jwt, permissionMiddleware(user.PermViewDashboard))
}

// ClassDashboard is the combined statistics view of one class.
type ClassDashboard struct {
	Grades     gradebook.GradeSummary `json:"grades"`
	Attendance []attendance.WeekStat  `json:"attendance"`
}

// classDashboard aggregates grades and attendance for one class, memoized
// per requester in the statistics cache.
func (api *dashboardApi) classDashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	classID := ctx.Param("id")
	from, to, err := bindDateRange(ctx)
	if err != nil {
		return err
	}

	key := core.StatsKey(claims.Subject, "dashboard:"+classID+":"+ctx.QueryParam("date_from")+":"+ctx.QueryParam("date_to"))
	if payload, ok := api.cache.Get(key); ok {
		return ctx.JSON(http.StatusOK, payload)
	}

	grades, err := api.gradeSvc.ClassSummary(classID)
	if err != nil {
		return errors.Wrap(err, "summarizing class grades")
	}
	weekly, err := api.attSvc.WeeklyStats(classID, from, to)
	if err != nil {
		return errors.Wrap(err, "aggregating weekly attendance")
	}

	dashboard := ClassDashboard{Grades: grades, Attendance: weekly}
	api.cache.Put(key, dashboard)
	return ctx.JSON(http.StatusOK, dashboard)
}
