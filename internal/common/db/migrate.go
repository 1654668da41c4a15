package db

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

// Migrate applies every pending goose migration found at the root of
// migrations through a database/sql handle sharing the pool's config.
func Migrate(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool, migrations fs.FS) error {
	start := time.Now()

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return HandleExecError(err, "apply migrations", start)
	}

	MeasureQueryDuration("apply migrations", start)
	log.Infof("database migrations applied in %v", time.Since(start))
	return nil
}

type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Fatalf(format string, v ...any) { g.log.Fatalf(format, v...) }
func (g gooseLogger) Printf(format string, v ...any) { g.log.Debugf(format, v...) }
