package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
)

// EchoLoggerMiddleware sets logger in context and writes one access log line per request
func EchoLoggerMiddleware(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			ctx := appcontext.SetLogger(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			logging.LogWithTrace(req.Context(), logger, "middleware", "Request completed", logrus.Fields{
				"http.method":      req.Method,
				"http.url":         req.URL.Path,
				"http.route":       c.Path(),
				"http.status_code": c.Response().Status,
				"http.request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
				"network.client":   c.RealIP(),
				"duration_ms":      float64(time.Since(start).Microseconds()) / 1000,
			})
			return nil
		}
	}
}
