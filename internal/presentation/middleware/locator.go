package middleware

import (
	"github.com/labstack/echo/v4"

	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
)

// EchoRepoLocatorMiddleware makes the shared repositories, post cache and auth
// collaborators available to handlers through the request context
func EchoRepoLocatorMiddleware(locator *appcontext.RepoLocator) echo.MiddlewareFunc {
	if locator == nil {
		panic("middleware: nil repository locator")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := appcontext.SetRepoLocator(c.Request().Context(), locator)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
