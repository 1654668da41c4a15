package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/profile-editor/internal/common/config"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	"github.com/AlibekovAA/profile-editor/internal/common/db"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/profile/repository"
	"github.com/AlibekovAA/profile-editor/internal/profile/repository/migrations"
)

type ProfileApp struct {
	Log    *logger.Logger
	Config config.ProfileConfig
	// Pool is nil when the in-memory store is used.
	Pool  *pgxpool.Pool
	Store repository.Store
}

// NewProfileApp loads configuration and picks the profile store: PostgreSQL
// when DATABASE_URL is set, the in-memory record otherwise.
func NewProfileApp(ctx context.Context) (*ProfileApp, error) {
	log, err := initializeLogger("profile")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadProfileConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return nil, err
	}

	app := &ProfileApp{Log: log, Config: cfg}

	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, using in-memory profile store")
		app.Store = repository.NewMemoryStore(nil)
		return app, nil
	}

	pool, err := initializeDatabase(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	app.Pool = pool

	storeCfg := repository.DefaultPgStoreConfig()
	storeCfg.CircuitBreakerThreshold = cfg.CircuitBreakerThreshold
	storeCfg.CircuitBreakerTimeout = cfg.CircuitBreakerTimeout
	storeCfg.CircuitBreakerReset = cfg.CircuitBreakerReset

	store := repository.NewPgStore(pool, nil, storeCfg, log)
	if err := store.Init(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to seed profile: %w", err)
	}
	app.Store = store

	return app, nil
}

func (a *ProfileApp) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func initializeDatabase(ctx context.Context, log *logger.Logger, cfg config.ProfileConfig) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, constants.DBMigrationTimeout)
	defer cancel()
	if err := db.Migrate(migrateCtx, log, pool, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)
	return pool, nil
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	log, err := logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	log.SetFormat(os.Getenv("LOG_FORMAT"))
	return log, nil
}
