package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"usersphere/internal/adapter/database/postgres"
	pgrepository "usersphere/internal/adapter/database/postgres/repository"
	"usersphere/internal/adapter/database/sqlite"
	sqliterepository "usersphere/internal/adapter/database/sqlite/repository"
	"usersphere/internal/adapter/http/routes"
	"usersphere/internal/core/port"
	"usersphere/internal/core/telemetry"
	"usersphere/internal/shared"
	"usersphere/pkg/auth"
	"usersphere/pkg/cache"
	"usersphere/pkg/config"
	"usersphere/pkg/tracing"
)

// StartServer wires the storage adapter, cache backend and router, then
// serves until ctx is cancelled. DATABASE_URL selects postgres, otherwise
// the embedded sqlite database is used.
func StartServer(ctx context.Context, cfg *config.Config, metrics *shared.AppMetrics, logger *shared.LokiLogger) error {
	var (
		userRepo port.UserRepository
		ping     func(ctx context.Context) error
		closeDB  func()
	)

	probe := telemetry.NewOTELProbe(slog.Default())

	dbSystem := "sqlite"
	if cfg.DatabaseURL != "" {
		dbSystem = "postgres"
	}

	err := tracing.SpanWrapper(ctx, "bootstrap.database", []attribute.KeyValue{
		attribute.String("db.system", dbSystem),
	}, func(ctx context.Context) error {
		if cfg.DatabaseURL != "" {
			db, err := postgres.NewDB(ctx, cfg)

			if err != nil {
				return err
			}

			userRepo = pgrepository.NewUserRepository(db)
			ping = func(ctx context.Context) error { return db.Ping(ctx) }
			closeDB = db.Close

			return nil
		}

		db, err := sqlite.NewDB(cfg, metrics)

		if err != nil {
			return err
		}

		userRepo = sqliterepository.NewUserRepository(db, probe)
		ping = db.PingContext
		closeDB = func() { db.Close() }

		return nil
	})

	if err != nil {
		shared.LogError(ctx, logger, err, "Database setup failed", zap.String("db_system", dbSystem))
		return err
	}

	defer closeDB()

	jwtSvc := auth.New(cfg.TokenSecret(), cfg.TokenTTL)

	responseCache := buildResponseCache(ctx, cfg, metrics, logger)

	container := NewContainer(userRepo, ping, jwtSvc, metrics)

	router := routes.SetupRouter(routes.HandlersConfig{
		HomeHandler: container.HomeHandler,
		AuthHandler: container.AuthHandler,
		UserHandler: container.UserHandler,
	}, jwtSvc, metrics, logger, responseCache, cfg)

	listenPort := strconv.Itoa(cfg.Port)

	shared.LogInfo(ctx, logger, "Server starting",
		zap.String("port", listenPort),
		zap.String("environment", cfg.AppEnv),
		zap.String("db_system", dbSystem),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	srv := &http.Server{
		Addr:         ":" + listenPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			shared.LogError(shutdownCtx, logger, err, "Server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		shared.LogError(ctx, logger, err, "Server failed to start")
		return err
	}

	return nil
}

func buildResponseCache(ctx context.Context, cfg *config.Config, metrics *shared.AppMetrics, logger *shared.LokiLogger) *shared.ResponseCache {
	if !cfg.CacheEnabled {
		return nil
	}

	var store cache.Store

	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisAddr)

		if err != nil {
			shared.LogError(ctx, logger, err, "Redis unavailable, falling back to in-memory cache")
		} else {
			store = redisStore
		}
	}

	if store == nil {
		store = cache.NewMemoryStore(5*time.Minute, 10*time.Minute)
	}

	return shared.NewResponseCache(store, logger.Logger.Logger, metrics)
}
