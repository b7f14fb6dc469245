package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kanehiroyuu/post-api/internal/usecase/port"
)

// EchoMetricsMiddleware reports request count and latency to DogStatsD, tagged by route and status
func EchoMetricsMiddleware(stats port.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			tags := []string{
				"http.method:" + c.Request().Method,
				"http.route:" + c.Path(),
				fmt.Sprintf("http.status_code:%d", status),
			}
			_ = stats.Incr("http.request.count", tags, 1)
			_ = stats.Timing("http.request.duration", time.Since(start), tags, 1)
			return err
		}
	}
}
