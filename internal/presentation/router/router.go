package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echotrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"

	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/handler"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/response"
	"github.com/kanehiroyuu/post-api/internal/presentation/middleware"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
)

// Config holds router level settings
type Config struct {
	ServiceName    string
	APIPrefix      string
	BodyLimit      string
	AllowedOrigins []string
	AuthRatePerSec float64
	AuthRateBurst  int
}

// Handlers groups the HTTP handlers the router mounts
type Handlers struct {
	Health *handler.HealthHandler
	User   *handler.UserHandler
	Post   *handler.PostHandler
}

// Setup configures all routes with Datadog tracing
func Setup(cfg Config, h Handlers, logger *logrus.Logger, repoLocator *appcontext.RepoLocator, verifier port.TokenVerifier) *echo.Echo {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/v1"
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "1M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler(logger)

	e.Pre(echomiddleware.RemoveTrailingSlash())

	e.Use(echotrace.Middleware(echotrace.WithServiceName(cfg.ServiceName)))
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.EchoLoggerMiddleware(logger))
	e.Use(middleware.EchoRecoveryMiddleware())
	e.Use(middleware.EchoMetricsMiddleware(repoLocator.Metrics()))
	e.Use(middleware.EchoCORSMiddleware(cfg.AllowedOrigins))
	e.Use(echomiddleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.EchoRepoLocatorMiddleware(repoLocator))

	// Health endpoints
	e.GET("/", h.Health.HealthCheck)
	e.GET("/health", h.Health.HealthCheck)

	api := e.Group(cfg.APIPrefix)

	// User endpoints
	users := api.Group("/user")
	if cfg.AuthRatePerSec > 0 {
		users.Use(middleware.EchoRateLimitMiddleware(cfg.AuthRatePerSec, cfg.AuthRateBurst))
	}
	users.POST("", h.User.Signup)
	users.POST("/login", h.User.Login)

	// Post endpoints
	posts := api.Group("/post", middleware.EchoAuthMiddleware(verifier))
	posts.POST("", h.Post.CreatePost)
	posts.GET("", h.Post.ListPosts)
	posts.DELETE("/:id", h.Post.DeletePost)

	return e
}
