package repository

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	"github.com/AlibekovAA/profile-editor/internal/common/db"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/common/resilience"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
)

// Querier is the subset of *pgxpool.Pool used by PgStore.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgStoreConfig struct {
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
	Retry                   db.RetryConfig
}

func DefaultPgStoreConfig() PgStoreConfig {
	return PgStoreConfig{
		CircuitBreakerThreshold: constants.DefaultCircuitBreakerThreshold,
		CircuitBreakerTimeout:   constants.DefaultCircuitBreakerTimeout,
		CircuitBreakerReset:     constants.DefaultCircuitBreakerReset,
		Retry:                   db.DefaultRetryConfig,
	}
}

type PgStore struct {
	q       Querier
	id      domain.ID
	clock   clock.Clock
	breaker *resilience.CircuitBreaker
	retry   db.RetryConfig
	log     *logger.Logger
}

const (
	seedProfileQuery = `
INSERT INTO profiles (id, name, bio, email, phone, location, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`

	selectProfileQuery = `
SELECT id, name, bio, email, phone, location, updated_at
FROM profiles
WHERE id = $1`

	updateProfileQuery = `
UPDATE profiles SET
    name       = COALESCE($2, name),
    bio        = COALESCE($3, bio),
    email      = COALESCE($4, email),
    phone      = COALESCE($5, phone),
    location   = COALESCE($6, location),
    updated_at = GREATEST($7::timestamptz, updated_at + interval '1 millisecond')
WHERE id = $1
RETURNING id, name, bio, email, phone, location, updated_at`
)

func NewPgStore(q Querier, clk clock.Clock, cfg PgStoreConfig, log *logger.Logger) *PgStore {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = db.DefaultRetryConfig
	}
	return &PgStore{
		q:     q,
		id:    domain.ID(constants.ProfileID),
		clock: clk,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  cfg.CircuitBreakerThreshold,
			Timeout:    cfg.CircuitBreakerTimeout,
			ResetAfter: cfg.CircuitBreakerReset,
			Name:       "profile_store",
			Logger:     log,
			Now:        clk.Now,
		}),
		retry: cfg.Retry,
		log:   log,
	}
}

// Init inserts the seed record unless one already exists.
func (s *PgStore) Init(ctx context.Context) error {
	seed := domain.Seed(s.clock.Now())
	return s.call(ctx, func(ctx context.Context) error {
		start := time.Now()
		_, err := s.q.Exec(ctx, seedProfileQuery,
			string(seed.ID), seed.Name, seed.Bio, seed.Email, seed.Phone, seed.Location, seed.UpdatedAt)
		return db.HandleExecError(err, "seed profile", start)
	})
}

func (s *PgStore) Read(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	err := s.call(ctx, func(ctx context.Context) error {
		start := time.Now()
		row := s.q.QueryRow(ctx, selectProfileQuery, string(s.id))
		var err error
		p, err = scanProfile(row)
		return db.HandleQueryError(err, commonerrors.ErrProfileNotFound, "select profile", start)
	})
	return p, err
}

func (s *PgStore) Write(ctx context.Context, u domain.Update) (domain.Profile, error) {
	at := s.clock.Now().UTC().Truncate(time.Millisecond)

	var p domain.Profile
	err := s.call(ctx, func(ctx context.Context) error {
		start := time.Now()
		row := s.q.QueryRow(ctx, updateProfileQuery,
			string(s.id), u.Name, u.Bio, u.Email, u.Phone, u.Location, at)
		var err error
		p, err = scanProfile(row)
		return db.HandleQueryError(err, commonerrors.ErrProfileNotFound, "update profile", start)
	})
	return p, err
}

func (s *PgStore) call(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.breaker.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, s.log, s.retry, fn)
	})
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var (
		p  domain.Profile
		id string
	)
	if err := row.Scan(&id, &p.Name, &p.Bio, &p.Email, &p.Phone, &p.Location, &p.UpdatedAt); err != nil {
		return domain.Profile{}, err
	}
	p.ID = domain.ID(id)
	p.UpdatedAt = p.UpdatedAt.UTC().Truncate(time.Millisecond)
	return p, nil
}
