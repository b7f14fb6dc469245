package main

import (
	"database/sql"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/auth"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/cache"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/database"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/memory"
	infraredis "github.com/kanehiroyuu/post-api/internal/infrastructure/redis"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/tracing"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/handler"
	"github.com/kanehiroyuu/post-api/internal/presentation/router"
	"github.com/kanehiroyuu/post-api/internal/profile"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
)

// SetupRepositories creates and configures all repositories.
// redisClient is nil when the in-process cache is configured.
func SetupRepositories(p *profile.Profile, db *sql.DB, redisClient redis.UniversalClient, stats port.Metrics, logger *logrus.Logger) *appcontext.RepoLocator {
	loggingDB := database.NewLoggingDB(db, logger, p.DBDriver)
	userRepo := tracing.NewUserRepositoryTracer(database.NewUserRepository(loggingDB, logger), p.DBDriver)
	postRepo := tracing.NewPostRepositoryTracer(database.NewPostRepository(loggingDB, logger), p.DBDriver)

	var cacheRepo port.CacheRepository
	if redisClient != nil {
		cacheRepo = tracing.NewCacheRepositoryTracer(infraredis.NewCacheRepository(redisClient), "redis")
	} else {
		cacheRepo = tracing.NewCacheRepositoryTracer(memory.NewCacheRepository(time.Minute), "memory")
	}
	postCache := tracing.NewPostCacheTracer(cache.NewPostCache(cacheRepo, p.CacheTTL))

	return &appcontext.RepoLocator{
		UserRepo:  userRepo,
		PostRepo:  postRepo,
		PostCache: postCache,
		Cache:     cacheRepo,
		Hasher:    auth.NewBcryptHasher(0),
		Tokens:    auth.NewJWTManager(p.JWTSecret, p.TokenTTL),
		Stats:     stats,
	}
}

// SetupRouter creates and configures the application router with all handlers
func SetupRouter(p *profile.Profile, db *sql.DB, logger *logrus.Logger, repoLocator *appcontext.RepoLocator) *echo.Echo {
	verifier := auth.NewJWTManager(p.JWTSecret, p.TokenTTL)

	return router.Setup(router.Config{
		ServiceName:    p.DDService,
		APIPrefix:      p.APIPrefix,
		AllowedOrigins: p.AllowedOrigins,
		AuthRatePerSec: p.LoginRateLimit,
		AuthRateBurst:  p.LoginRateBurst,
	}, router.Handlers{
		Health: handler.NewHealthHandler(db, repoLocator.Cache),
		User:   handler.NewUserHandler(),
		Post:   handler.NewPostHandler(),
	}, logger, repoLocator, verifier)
}
