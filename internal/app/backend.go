package app

import (
	"context"
	"fmt"

	"restaurant_reviews/internal/config"
	"restaurant_reviews/internal/logging"
	"restaurant_reviews/internal/repository"
)

// Backend bundles the repositories of one storage driver.
type Backend struct {
	Restaurants repository.RestaurantRepository
	Reviews     repository.ReviewRepository
	Users       repository.UserRepository

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks the database is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases the connection pool.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend connects to the configured driver and makes sure the schema exists.
func OpenBackend(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	switch cfg.Driver {
	case "postgres":
		return openPostgres(ctx, cfg)
	case "sqlite":
		return openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	pool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := config.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	return &Backend{
		Restaurants: repository.NewRestaurantRepository(pool),
		Reviews:     repository.NewReviewRepository(pool),
		Users:       repository.NewUserRepository(pool),
		ping:        pool.Ping,
		close:       pool.Close,
	}, nil
}

func openSQLite(cfg config.DatabaseConfig) (*Backend, error) {
	db, err := config.OpenSQLite(cfg.SQLitePath, cfg.MaxConns)
	if err != nil {
		return nil, err
	}
	if err := repository.MigrateGorm(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	logging.Info().Str("path", cfg.SQLitePath).Msg("Using SQLite database")

	return &Backend{
		Restaurants: repository.NewGormRestaurantRepository(db),
		Reviews:     repository.NewGormReviewRepository(db),
		Users:       repository.NewGormUserRepository(db),
		ping:        sqlDB.PingContext,
		close: func() {
			if err := sqlDB.Close(); err != nil {
				logging.Warn().Err(err).Msg("Failed to close SQLite database")
			}
		},
	}, nil
}
