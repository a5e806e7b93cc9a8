package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shuleni/core/user"
)

// permissionMiddleware gates a handler on one permission token.
// The effective permission set is the union over all the session's roles.
func permissionMiddleware(perm string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !user.HasPermission(claims.Roles, perm) {
				ctx.Logger().Warnf("user %s denied %q", claims.Subject, perm)
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
