package http

import (
	"context"
	"fmt"

	"itemtracker/internal/adapter/database/postgres"
	pgrepository "itemtracker/internal/adapter/database/postgres/repository"
	"itemtracker/internal/adapter/database/sqlite"
	sqliterepository "itemtracker/internal/adapter/database/sqlite/repository"
	"itemtracker/internal/adapter/http/handler"
	"itemtracker/internal/adapter/http/middleware"
	"itemtracker/internal/adapter/http/routes"
	"itemtracker/internal/adapter/http/validation"
	"itemtracker/internal/core/port"
	"itemtracker/internal/core/service"
	"itemtracker/internal/core/telemetry"
	"itemtracker/internal/core/util"
	"itemtracker/pkg/auth"
	"itemtracker/pkg/config"
	"itemtracker/pkg/logger"
)

type Container struct {
	Store       port.Store
	Tokens      port.TokenIssuer
	RateLimiter *middleware.RateLimiter

	UserService  *service.UserService
	AuthService  *service.AuthService
	ItemService  *service.ItemService
	StatsService *service.StatsService

	AuthHandler   *handler.AuthHandler
	ItemHandler   *handler.ItemHandler
	StatsHandler  *handler.StatsHandler
	HealthHandler *handler.HealthHandler

	closers []func() error
}

// OpenStore connects the configured database driver and runs its migrations.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, probe port.Telemetry) (port.Store, func() error, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.URL, postgres.Options{MaxConns: int32(cfg.MaxOpenConns)})

		if err != nil {
			return nil, nil, err
		}

		return pgrepository.NewStore(db, probe), func() error { db.Close(); return nil }, nil
	case config.DriverSQLite, "":
		db, err := sqlite.NewDB(cfg.Path, sqlite.Options{
			LogQueries:   cfg.LogQueries,
			MaxOpenConns: cfg.MaxOpenConns,
		})

		if err != nil {
			return nil, nil, err
		}

		return sqliterepository.NewStore(db, probe), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func NewContainer(ctx context.Context, cfg *config.AppConfig, store port.Store, probe port.Telemetry, log *logger.LokiLogger, metrics *telemetry.AppMetrics) (*Container, error) {
	validator, err := validation.New()

	if err != nil {
		return nil, err
	}

	c := &Container{
		Store:  store,
		Tokens: auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}

	if cfg.RateLimit.Enabled {
		var limitStore middleware.RateLimitStore = middleware.NewMemoryStore()

		if cfg.RateLimit.RedisAddr != "" {
			redisStore, err := middleware.NewRedisStore(ctx, cfg.RateLimit.RedisAddr)

			if err != nil {
				return nil, err
			}

			limitStore = redisStore
		}

		c.closers = append(c.closers, limitStore.Close)
		c.RateLimiter = middleware.NewRateLimiter(limitStore, cfg.RateLimit.Rules, log.Zap(), metrics)
	}

	c.UserService = service.NewUserService(store)
	c.AuthService = service.NewAuthService(c.UserService, cfg.Auth.BcryptCost, log.Zap())
	c.ItemService = service.NewItemService(store, validator, probe, log.Zap())
	c.StatsService = service.NewStatsService(store, probe)

	limits := util.ListLimits{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}

	c.AuthHandler = handler.NewAuthHandler(c.AuthService, c.Tokens, validator, log)
	c.ItemHandler = handler.NewItemHandler(c.ItemService, validator, limits, log)
	c.StatsHandler = handler.NewStatsHandler(c.StatsService, log)
	c.HealthHandler = handler.NewHealthHandler(store, log)

	return c, nil
}

func (c *Container) Handlers() routes.HandlersConfig {
	return routes.HandlersConfig{
		AuthHandler:   c.AuthHandler,
		ItemHandler:   c.ItemHandler,
		StatsHandler:  c.StatsHandler,
		HealthHandler: c.HealthHandler,
		Tokens:        c.Tokens,
		Users:         c.UserService,
		RateLimiter:   c.RateLimiter,
	}
}

func (c *Container) Close() error {
	var firstErr error

	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
