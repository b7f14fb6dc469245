package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/response"
)

// Pinger is a database whose liveness the health check reports
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger is a cache whose liveness the health check reports
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db    Pinger
	cache CachePinger
}

// NewHealthHandler creates a new HealthHandler. Either dependency may be nil.
func NewHealthHandler(db Pinger, cache CachePinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthCheck handles GET / and GET /health
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.health_check")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)
	span.SetTag("http.user_agent", c.Request().UserAgent())

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			span.SetTag("health.status", "unhealthy")
			logging.LogErrorWithTrace(ctx, logger, "handler", "Database ping failed", err, nil)
			return response.Fail(c, http.StatusServiceUnavailable, "Service Unavailable")
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			span.SetTag("health.status", "unhealthy")
			logging.LogErrorWithTrace(ctx, logger, "handler", "Cache ping failed", err, nil)
			return response.Fail(c, http.StatusServiceUnavailable, "Service Unavailable")
		}
	}

	span.SetTag("health.status", "healthy")
	logging.LogDebugWithTrace(ctx, logger, "handler", "Health check endpoint called", nil)

	return response.Success(c, http.StatusOK, map[string]string{"status": "healthy"})
}
