package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"bundle-bot/internal/config"
	"bundle-bot/internal/order"
)

// Storage keeps one row per user in pending_orders.
type Storage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewStorage(ctx context.Context, cfg config.Database, logger *zap.Logger) (*Storage, error) {
	const operation = "postgres.NewStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := RunMigrations(ctx, db.DB, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	logger.Info("Successfully connected to PostgreSQL")
	return NewWithDB(db, logger), nil
}

// NewWithDB wraps an already connected and migrated database.
func NewWithDB(db *sqlx.DB, logger *zap.Logger) *Storage {
	return &Storage{db: db, logger: logger}
}

func (s *Storage) Get(ctx context.Context, userID int64) (*order.PendingOrder, error) {
	const query = `
        SELECT user_id, state, bundle_code, price, phone_number, updated_at
        FROM pending_orders
        WHERE user_id = $1
    `

	var o order.PendingOrder
	if err := s.db.GetContext(ctx, &o, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (s *Storage) Save(ctx context.Context, o *order.PendingOrder) error {
	const query = `
        INSERT INTO pending_orders (user_id, state, bundle_code, price, phone_number, updated_at)
        VALUES (:user_id, :state, :bundle_code, :price, :phone_number, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            state        = EXCLUDED.state,
            bundle_code  = EXCLUDED.bundle_code,
            price        = EXCLUDED.price,
            phone_number = EXCLUDED.phone_number,
            updated_at   = EXCLUDED.updated_at
    `

	if _, err := s.db.NamedExecContext(ctx, query, o); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ order.Store = (*Storage)(nil)
