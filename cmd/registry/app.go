package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/student-id-registry/config"
	"github.com/alem-hub/student-id-registry/internal/application/command"
	"github.com/alem-hub/student-id-registry/internal/application/errorinjection"
	"github.com/alem-hub/student-id-registry/internal/application/query"
	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/internal/infrastructure/persistence/csvfile"
	"github.com/alem-hub/student-id-registry/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/student-id-registry/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/student-id-registry/internal/infrastructure/persistence/sqlite"
	"github.com/alem-hub/student-id-registry/internal/interface/console"
	"github.com/alem-hub/student-id-registry/pkg/circuitbreaker"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION WIRING
// ══════════════════════════════════════════════════════════════════════════════

// app holds every wired component for one process run.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	registry  *student.Registry
	generator *identifier.Generator
	storage   student.Storage

	register *command.RegisterStudentHandler
	save     *command.SaveRecordsHandler
	list     *query.ListStudentsHandler
	login    *query.LoginHandler
	harness  *errorinjection.Harness

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	storage, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.storage = storage

	// ─────────────────────────────────────────────────────────────────────────
	// 2. RECORDS
	// ─────────────────────────────────────────────────────────────────────────
	a.registry = student.NewRegistry(log)
	if _, err := a.registry.Load(ctx, storage); err != nil {
		a.Close()
		return nil, err
	}

	a.generator = identifier.NewGenerator()
	if cfg.Features.IsEnabled(config.FeatureReserveStoredSerials) {
		reserveSerials(a.generator, a.registry.List())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	a.register = command.NewRegisterStudentHandler(identifier.NewService(a.generator), a.registry, log)
	a.save = command.NewSaveRecordsHandler(a.registry, storage, log)
	a.list = query.NewListStudentsHandler(a.registry)

	loginOpts := []query.LoginOption{query.WithPreValidate(cfg.Login.PreValidate)}
	if cache := a.openCache(ctx); cache != nil {
		loginOpts = append(loginOpts, query.WithCache(cache, cfg.Redis.TTL))
	}
	a.login = query.NewLoginHandler(a.registry, log, loginOpts...)

	a.harness, err = errorinjection.New(errorinjection.Config{
		TestsPerStudent: cfg.ErrorTest.TestsPerStudent,
	}, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) openStorage(ctx context.Context) (student.Storage, error) {
	switch a.cfg.Storage.Backend {
	case config.StorageSQLite:
		repo, err := sqlite.Open(a.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = repo.Close() })
		a.log.Info("using sqlite storage", logger.Path(a.cfg.Storage.SQLitePath))
		return repo, nil

	case config.StoragePostgres:
		conn, err := a.connectPostgres(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.log.Info("using postgres storage")
		return postgres.NewStudentRepository(conn), nil

	default:
		a.log.Info("using csv storage", logger.Path(a.cfg.Storage.CSVPath))
		return csvfile.NewStore(a.cfg.Storage.CSVPath), nil
	}
}

func (a *app) connectPostgres(ctx context.Context) (*postgres.Connection, error) {
	settings := postgres.DefaultPoolSettings()
	db := a.cfg.Database
	if db.MaxConns > 0 {
		settings.MaxConns = db.MaxConns
	}
	if db.MinConns > 0 {
		settings.MinConns = db.MinConns
	}
	if db.ConnMaxLifetime > 0 {
		settings.MaxConnLifetime = db.ConnMaxLifetime
	}
	if db.ConnMaxIdleTime > 0 {
		settings.MaxConnIdleTime = db.ConnMaxIdleTime
	}
	settings.OnRetry = func(attempt int, err error, delay time.Duration) {
		a.log.Warn("postgres ping failed, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}

	connectCtx := ctx
	if db.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, db.ConnectTimeout)
		defer cancel()
	}

	conn, err := postgres.NewConnectionFromURL(connectCtx, db.URL, settings)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn.Close)
	return conn, nil
}

// openCache connects the optional login cache. Failures are logged and the
// registry is used directly.
func (a *app) openCache(ctx context.Context) student.Cache {
	if !a.cfg.Redis.Enabled {
		return nil
	}
	rc := a.cfg.Redis
	cache, err := redis.NewCache(ctx, redis.Config{
		URL:          rc.URL,
		Host:         rc.Host,
		Port:         rc.Port,
		Password:     rc.Password,
		DB:           rc.DB,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})
	if err != nil {
		a.log.Warn("redis unavailable, login cache disabled", logger.Err(err))
		return nil
	}
	a.closers = append(a.closers, func() { _ = cache.Close() })
	a.log.Info("login cache enabled")
	return redis.NewGuardedStudentCache(redis.NewStudentCache(cache), func(name string, from, to circuitbreaker.State) {
		a.log.Warn("cache circuit state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})
}

func (a *app) menuDeps() console.Deps {
	return console.Deps{
		Registry:   a.registry,
		Register:   a.register,
		Save:       a.save,
		List:       a.list,
		Login:      a.login,
		Harness:    a.harness,
		ReportPath: a.cfg.ErrorTest.ReportPath,
		Logger:     a.log,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// reserveSerials marks serials of stored records as used so they are not reissued.
func reserveSerials(g *identifier.Generator, records []*student.Student) {
	for _, r := range records {
		if r.Serial != "" {
			g.Reserve(r.Serial)
		}
	}
}
