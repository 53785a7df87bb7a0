package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// RunMigrations brings the pending_orders schema up to the latest embedded version.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	const operation = "postgres.RunMigrations"

	provider, err := newMigrationProvider(db)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: apply: %w", operation, err)
	}

	for _, r := range results {
		logger.Info("Applied pending_orders migration",
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration))
	}
	if len(results) == 0 {
		logger.Debug("pending_orders schema already current")
	}
	return nil
}

func newMigrationProvider(db *sql.DB) (*goose.Provider, error) {
	migrations, err := fs.Sub(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("build migration provider: %w", err)
	}
	return provider, nil
}
