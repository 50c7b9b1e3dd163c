// Package migrations applies the embedded schema for the configured driver.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// Files returns the ordered .up.sql file names for a driver.
func Files(driver database.Driver) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, driver.String())
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)
	return upFiles, nil
}

// Run applies every migration not yet recorded in schema_migrations and returns the
// versions it applied. Each file runs in its own transaction.
func Run(ctx context.Context, conn database.Connection) ([]string, error) {
	driver := conn.Driver()
	files, err := Files(driver)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var applied []string
	for _, file := range files {
		version := strings.TrimSuffix(file, ".up.sql")

		var count int
		if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", version, err)
		}
		if count > 0 {
			continue
		}

		body, err := migrationsFS.ReadFile(driver.String() + "/" + file)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := apply(ctx, conn, version, string(body)); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}

	return applied, nil
}

func apply(ctx context.Context, conn database.Connection, version, body string) error {
	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", version, err)
	}

	if _, err := tx.Exec(ctx, body); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to execute migration %s: %w", version, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		version, database.FormatTime(time.Now())); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}

	return tx.Commit(ctx)
}
