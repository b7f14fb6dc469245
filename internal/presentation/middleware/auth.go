package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/response"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
)

const bearerPrefix = "Bearer "

// EchoAuthMiddleware requires a valid bearer token and stores its subject in the request context.
// Requests without one never reach the handler.
func EchoAuthMiddleware(verifier port.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "middleware.auth")
			defer span.Finish()

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				span.SetTag("auth.success", false)
				return response.Error(c, apperror.Unauthorized(apperror.UnauthorizedMessage))
			}

			userID, err := verifier.Verify(ctx, strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				span.SetTag("auth.success", false)
				logging.LogWarnWithTrace(ctx, appcontext.GetLogger(ctx), "middleware", "Rejected bearer token", logrus.Fields{
					"error": err.Error(),
				})
				return response.Error(c, apperror.Unauthorized(apperror.UnauthorizedMessage))
			}

			span.SetTag("auth.success", true)
			span.SetTag("user.id", userID)

			ctx = appcontext.SetUserID(ctx, userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
