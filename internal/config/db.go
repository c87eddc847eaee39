package config

import (
	"context"
	"fmt"
	"time"

	"restaurant_reviews/internal/logging"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the libpq connection string for the postgres driver.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslmode)
}

// ConnectDB establishes a connection pool to PostgreSQL, retrying a fixed
// number of times while the database comes up.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns

	var pool *pgxpool.Pool
	for i := 0; i < cfg.ConnectRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				logging.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		logging.Warn().Err(err).
			Int("attempt", i+1).
			Int("max_attempts", cfg.ConnectRetries).
			Dur("retry_in", cfg.RetryInterval).
			Msg("Failed to connect to database")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", cfg.ConnectRetries, err)
}

// EnsureSchema creates tables if they don't exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	sql := `
	CREATE TABLE IF NOT EXISTS restaurants (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL,
		description VARCHAR(500) NOT NULL,
		location VARCHAR(255) NOT NULL,
		website VARCHAR(255) NOT NULL,
		image_url VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		restaurant_id BIGINT NOT NULL,
		rating VARCHAR(1) NOT NULL CHECK (rating IN ('1', '2', '3', '4', '5')),
		review VARCHAR(500) NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role INTEGER NOT NULL CHECK (role IN (1, 2, 4)) DEFAULT 2,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_restaurant_id ON reviews(restaurant_id);

	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';

	DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'set_restaurants_updated_at') THEN
			CREATE TRIGGER set_restaurants_updated_at
			BEFORE UPDATE ON restaurants
			FOR EACH ROW EXECUTE FUNCTION update_updated_at_column();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'set_reviews_updated_at') THEN
			CREATE TRIGGER set_reviews_updated_at
			BEFORE UPDATE ON reviews
			FOR EACH ROW EXECUTE FUNCTION update_updated_at_column();
		END IF;
	END
	$$;
	`
	if _, err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}

	logging.Info().Msg("Database schema ready")
	return nil
}

// OpenSQLite opens the embedded database used by the sqlite driver and by
// tests. Foreign keys are switched on so review cascades behave like Postgres.
func OpenSQLite(path string, maxConns int32) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unable to access sqlite pool: %w", err)
	}
	if path == ":memory:" {
		// every connection to :memory: is a separate database
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(int(maxConns))

	return db, nil
}
