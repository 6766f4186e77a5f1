package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ConnectDB establishes a connection to the PostgreSQL database, retrying
// while the server comes up
func ConnectDB(ctx context.Context, cfg DBConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	for i := 0; i < cfg.MaxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN())
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info("Successfully connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
				return pool, nil
			}
			pool.Close()
		}
		log.Warn("Failed to connect to database",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", cfg.MaxRetries),
			zap.Duration("retry_in", cfg.RetryInterval),
			zap.Error(err))

		if i == cfg.MaxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", cfg.MaxRetries, err)
}

// Execer runs a statement; satisfied by *pgxpool.Pool and pgxmock
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('user', 'admin')) DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS user_schedule (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		section_ref TEXT NOT NULL,
		position BIGSERIAL,
		added_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, section_ref)
	);

	CREATE INDEX IF NOT EXISTS idx_user_schedule_position ON user_schedule(user_id, position);

	CREATE TABLE IF NOT EXISTS dept (
		dept_id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		gpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		past_classes INTEGER NOT NULL DEFAULT 0,
		unique_classes INTEGER NOT NULL DEFAULT 0,
		new_classes INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS course (
		course_id TEXT PRIMARY KEY,
		dept TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		credits INTEGER NOT NULL DEFAULT 0,
		gpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		enrollment INTEGER NOT NULL DEFAULT 0,
		withdraw INTEGER NOT NULL DEFAULT 0,
		past_classes INTEGER NOT NULL DEFAULT 0,
		new_classes INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS instructor (
		instructor_id TEXT PRIMARY KEY,
		last_name TEXT NOT NULL DEFAULT '',
		dept TEXT NOT NULL DEFAULT '',
		gpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		enrollment INTEGER NOT NULL DEFAULT 0,
		withdraw INTEGER NOT NULL DEFAULT 0,
		past_classes INTEGER NOT NULL DEFAULT 0,
		new_classes INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS past_instance (
		instance_id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL DEFAULT '',
		instructor_id TEXT NOT NULL DEFAULT '',
		year TEXT NOT NULL DEFAULT '',
		term TEXT NOT NULL DEFAULT '',
		crn TEXT NOT NULL DEFAULT '',
		gpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		withdraw INTEGER NOT NULL DEFAULT 0,
		enrollment INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS new_instance (
		crn TEXT PRIMARY KEY,
		dept TEXT NOT NULL DEFAULT '',
		course_id TEXT NOT NULL DEFAULT '',
		instructor_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		modality TEXT NOT NULL DEFAULT '',
		credits INTEGER NOT NULL DEFAULT 0,
		capacity INTEGER NOT NULL DEFAULT 0,
		days TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS instructor_course_stats (
		stat_id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL DEFAULT '',
		instructor_id TEXT NOT NULL DEFAULT '',
		gpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		enrollment INTEGER NOT NULL DEFAULT 0,
		withdraw INTEGER NOT NULL DEFAULT 0,
		past_classes INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_new_instance_course_id ON new_instance(course_id);
	CREATE INDEX IF NOT EXISTS idx_past_instance_course_id ON past_instance(course_id);
`

// AutoMigrate creates tables if they don't exist
func AutoMigrate(ctx context.Context, db Execer, log *zap.Logger) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	log.Info("AutoMigrate applied successfully")
	return nil
}
