package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/response"
)

// EchoRateLimitMiddleware limits each client IP to perSecond requests with the given burst.
// Idle client limiters are dropped after three minutes.
func EchoRateLimitMiddleware(perSecond float64, burst int) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, apperror.RateLimited())
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return response.Error(c, apperror.RateLimited())
		},
	})
}
