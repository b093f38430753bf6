// Package postgres provides the Postgres store backing via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects a pgx pool and ensures the schema exists.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);

	CREATE TABLE IF NOT EXISTS progress_entries (
		seq         BIGSERIAL PRIMARY KEY,
		user_id     TEXT NOT NULL,
		kind        TEXT NOT NULL,
		topic       TEXT NOT NULL DEFAULT '',
		score       DOUBLE PRECISION NOT NULL DEFAULT 0,
		detail      JSONB,
		recorded_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_progress_user ON progress_entries(user_id, seq);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		bio     TEXT NOT NULL DEFAULT '',
		goals   TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS custom_quizzes (
		seq        BIGSERIAL PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		questions  JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_quizzes_user ON custom_quizzes(user_id, seq);

	CREATE TABLE IF NOT EXISTS messages (
		seq       BIGSERIAL PRIMARY KEY,
		from_user TEXT NOT NULL,
		to_user   TEXT NOT NULL,
		text      TEXT NOT NULL,
		sent_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(from_user, to_user, seq);

	CREATE TABLE IF NOT EXISTS leaderboard (
		seq   BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL
	);

	CREATE TABLE IF NOT EXISTS achievements (
		user_id     TEXT NOT NULL,
		achievement TEXT NOT NULL,
		unlocked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, achievement)
	);`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
