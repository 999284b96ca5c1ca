package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds a pgx pool for the messaging store and verifies connectivity
// with a ping before handing it out. The DSN is normalized first so .env
// files written for the asyncpg-based deployment keep working unchanged.
func Connect(ctx context.Context, dsn string, opts ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(normalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	// The API process holds one pool shared by every controller; size it for
	// short bursty queries rather than long transactions.
	if cfg.MaxConns == 0 {
		cfg.MaxConns = 8
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = 5 * time.Minute
	}
	if cfg.MaxConnLifetime == 0 {
		cfg.MaxConnLifetime = time.Hour
	}
	if cfg.HealthCheckPeriod == 0 {
		cfg.HealthCheckPeriod = time.Minute
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// NewPoolFromEnv reads DATABASE_URL (DB_URL as a fallback) and an optional
// PG_MAX_CONNS override, then connects.
func NewPoolFromEnv(ctx context.Context, opts ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DB_URL"))
	}
	if dsn == "" {
		return nil, errors.New("postgres: DATABASE_URL environment variable is not set")
	}

	if v := strings.TrimSpace(os.Getenv("PG_MAX_CONNS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts = append([]func(*pgxpool.Config){func(cfg *pgxpool.Config) {
				cfg.MaxConns = int32(n)
			}}, opts...)
		}
	}
	return Connect(ctx, dsn, opts...)
}

// normalizeDSN strips SQLAlchemy driver suffixes (postgresql+asyncpg://) so a
// DSN copied from the Python deployment parses under pgx.
func normalizeDSN(dsn string) string {
	s := strings.TrimSpace(dsn)
	for _, prefix := range []string{"postgresql", "postgres"} {
		if rest, ok := strings.CutPrefix(s, prefix+"+"); ok {
			if _, tail, found := strings.Cut(rest, "://"); found {
				return prefix + "://" + tail
			}
		}
	}
	return s
}
