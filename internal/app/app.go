// Package app wires configuration, storage and services into a runnable
// application. The CLI commands share it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/api"
	"github.com/s2cr/repair-desk/internal/api/handler"
	"github.com/s2cr/repair-desk/internal/api/middleware"
	"github.com/s2cr/repair-desk/internal/core/ports"
	"github.com/s2cr/repair-desk/internal/core/service"
	"github.com/s2cr/repair-desk/internal/infrastructure/db/memory"
	mongodb "github.com/s2cr/repair-desk/internal/infrastructure/db/mongo"
	redisdb "github.com/s2cr/repair-desk/internal/infrastructure/db/redis"
	"github.com/s2cr/repair-desk/internal/pkg/config"
	applog "github.com/s2cr/repair-desk/pkg/logger"
)

// App holds the long-lived services. Close releases the storage connections.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger

	Store       ports.CredentialStore
	Credentials *service.CredentialService
	Auth        *service.AuthService
	Sessions    *service.SessionService
	Guard       *service.Guard

	checks  map[string]handler.Check
	closers []func(context.Context) error
}

// New connects the configured storage and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger, checks: map[string]handler.Check{}}

	sessionStore, err := a.openStorage(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Credentials = service.NewCredentialService(a.Store, cfg.BcryptCost, applog.Named(logger, "credentials"))

	var throttle *service.LoginThrottle
	if cfg.Login.AttemptsPerMinute > 0 {
		throttle = service.NewLoginThrottle(cfg.Login.AttemptsPerMinute, cfg.Login.Burst)
	}
	a.Auth = service.NewAuthService(a.Credentials, a.Store, throttle, applog.Named(logger, "auth"))
	a.Sessions = service.NewSessionService(sessionStore, cfg.Session.TTL, applog.Named(logger, "sessions"))
	a.Guard = service.NewGuard(a.Sessions, a.Store, applog.Named(logger, "guard"))

	return a, nil
}

func (a *App) openStorage(ctx context.Context) (ports.SessionStore, error) {
	switch a.cfg.Storage {
	case config.StorageMemory:
		a.logger.Warn().Msg("using in-memory storage, all accounts and sessions are lost on exit")
		a.Store = memory.NewCredentialStore()
		return memory.NewSessionStore(), nil

	case config.StorageMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      a.cfg.Mongo.URI,
			Database: a.cfg.Mongo.Database,
			Timeout:  a.cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		a.checks["mongodb"] = func(ctx context.Context) error { return mongodb.Ping(ctx, db) }

		store := mongodb.NewCredentialStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		a.Store = store
		a.logger.Info().Str("database", a.cfg.Mongo.Database).Msg("connected to MongoDB")

		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
			Timeout:  a.cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.checks["redis"] = func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) }
		a.logger.Info().Str("addr", a.cfg.Redis.Addr).Msg("connected to Redis")

		return redisdb.NewSessionStore(rdb), nil
	}
	return nil, fmt.Errorf("unsupported storage %q", a.cfg.Storage)
}

// Router builds the HTTP handler. reg receives the HTTP request metrics and
// may be nil.
func (a *App) Router(reg prometheus.Registerer) *echo.Echo {
	return api.NewRouter(api.Deps{
		Auth:          a.Auth,
		Sessions:      a.Sessions,
		Guard:         a.Guard,
		Accounts:      a.Credentials,
		Cookie:        middleware.NewSessionCookie(a.cfg.Session.CookieName, a.cfg.Session.Secret, a.cfg.Session.CookieSecure, a.cfg.Session.TTL),
		Checks:        a.checks,
		Logger:        applog.Named(a.logger, "http"),
		Metrics:       reg,
		SecureCookies: a.cfg.Session.CookieSecure,
	})
}

// Close releases storage connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
