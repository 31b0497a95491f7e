// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const connectAttempts = 5

// schema is applied on every start; each statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	email      TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	photo_url  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id                TEXT PRIMARY KEY,
	owner_email       TEXT NOT NULL,
	event_title       TEXT NOT NULL,
	event_type        TEXT NOT NULL,
	location          TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	start_date        TEXT NOT NULL,
	end_date          TEXT NOT NULL,
	ai_assistance     BOOLEAN NOT NULL DEFAULT FALSE,
	responsibilities  TEXT[] NOT NULL DEFAULT '{}',
	safety_guidelines TEXT[] NOT NULL DEFAULT '{}',
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ,
	version           BIGINT NOT NULL DEFAULT 0
);

ALTER TABLE events ADD COLUMN IF NOT EXISTS version BIGINT NOT NULL DEFAULT 0;

CREATE INDEX IF NOT EXISTS events_start_date_idx ON events (start_date);
CREATE INDEX IF NOT EXISTS events_owner_email_idx ON events (owner_email);

CREATE TABLE IF NOT EXISTS joins (
	id         TEXT PRIMARY KEY,
	event_id   TEXT NOT NULL,
	user_email TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (event_id, user_email)
);

CREATE INDEX IF NOT EXISTS joins_user_email_idx ON joins (user_email);
`

// NewPool creates and validates a pgxpool connection pool.
// It retries a few times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		log.WithError(err).WithField("attempt", attempt).Warn("db connect attempt failed, retrying in 2s")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to postgres: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// Migrate creates the tables and indexes the repositories rely on.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
