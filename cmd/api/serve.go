package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	redistrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/redis/go-redis.v9"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/database"
	"github.com/kanehiroyuu/post-api/internal/profile"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func runServe(cmd *cobra.Command, migrate bool) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	logger := logging.NewLogger(os.Stdout, p.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if p.TracingEnabled {
		tracer.Start(
			tracer.WithEnv(p.DDEnv),
			tracer.WithService(p.DDService),
			tracer.WithServiceVersion(p.DDVersion),
			tracer.WithAgentAddr(fmt.Sprintf("%s:8126", p.DDAgentHost)),
			tracer.WithLogStartup(true),
		)
		defer tracer.Stop()

		if err := profiler.Start(
			profiler.WithService(p.DDService),
			profiler.WithEnv(p.DDEnv),
			profiler.WithVersion(p.DDVersion),
			profiler.WithAgentAddr(fmt.Sprintf("%s:8126", p.DDAgentHost)),
			profiler.WithProfileTypes(
				profiler.CPUProfile,
				profiler.HeapProfile,
			),
		); err != nil {
			logger.WithError(err).Warn("Failed to start profiler")
		} else {
			defer profiler.Stop()
		}
	}

	stats, err := newStatsClient(p)
	if err != nil {
		return err
	}
	defer stats.Close()

	db, err := database.Open(ctx, p.DBDriver, p.DSN(), p.TracingEnabled)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer db.Close()
	logger.WithField("db.driver", p.DBDriver).Info("Successfully connected to database")

	if migrate {
		if err := database.Migrate(ctx, db, p.DBDriver); err != nil {
			return err
		}
		logger.Info("Schema is up to date")
	}

	var redisClient redis.UniversalClient
	if p.CacheDriver == "redis" {
		redisClient, err = newRedisClient(ctx, p)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.WithField("redis.addr", p.RedisAddr()).Info("Successfully connected to Redis")
	}

	repoLocator := SetupRepositories(p, db, redisClient, stats, logger)
	e := SetupRouter(p, db, logger, repoLocator)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", p.Addr, p.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"port": p.Port, "mode": p.Mode}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newStatsClient(p *profile.Profile) (port.Metrics, error) {
	if !p.TracingEnabled {
		return &statsd.NoOpClient{}, nil
	}
	client, err := statsd.New(p.StatsdAddr(),
		statsd.WithNamespace("post_api."),
		statsd.WithTags([]string{
			"env:" + p.DDEnv,
			"service:" + p.DDService,
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize StatsD client")
	}
	return client, nil
}

func newRedisClient(ctx context.Context, p *profile.Profile) (redis.UniversalClient, error) {
	opts := &redis.Options{
		Addr:     p.RedisAddr(),
		Password: p.RedisPassword,
		DB:       p.RedisDB,
	}

	var client redis.UniversalClient
	if p.TracingEnabled {
		client = redistrace.NewClient(opts, redistrace.WithServiceName("redis"))
	} else {
		client = redis.NewClient(opts)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}
	return client, nil
}
