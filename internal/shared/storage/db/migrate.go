package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// The user_data schema ships inside the binary so cmd/api and cmd/migrate
// never depend on migration files being present on disk.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations brings the database up to the latest embedded migration.
// A nil database (in-memory dev mode) is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
