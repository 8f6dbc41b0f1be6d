package db

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/TerryHenrard/Pente-game/internal/db/migrations"
)

// RunMigrations applies the embedded goose migrations to the database.
func RunMigrations(ctx context.Context, database *DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, database.SQL(), "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
