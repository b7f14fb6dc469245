package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// EchoCORSMiddleware creates a CORS middleware with Datadog tracing
func EchoCORSMiddleware(allowedOrigins []string) echo.MiddlewareFunc {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		ExposedHeaders: []string{"X-Datadog-Trace-Id", "X-Datadog-Span-Id", echo.HeaderXRequestID},
		MaxAge:         300,
	}).Handler)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "middleware.cors")
			defer span.Finish()

			c.SetRequest(c.Request().WithContext(ctx))

			return corsHandler(next)(c)
		}
	}
}
