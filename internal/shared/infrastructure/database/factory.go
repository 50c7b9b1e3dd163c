package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds database configuration.
type Config struct {
	// Driver specifies the database driver to use.
	// If empty or "auto", it will be detected from the URL.
	Driver Driver

	// URL is the connection string for PostgreSQL.
	URL string

	// SQLitePath is the SQLite database file, or ":memory:".
	// Defaults to ~/.tasklist/data.db
	SQLitePath string

	// MaxConns is the maximum number of connections (PostgreSQL only).
	MaxConns int
}

// NewConnection creates a database connection based on configuration.
// This is the main factory function for creating database connections.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}

	switch driver {
	case DriverPostgres:
		if newPostgresConnection == nil {
			return nil, fmt.Errorf("postgres driver not registered")
		}
		return newPostgresConnection(ctx, cfg)
	case DriverSQLite:
		if newSQLiteConnection == nil {
			return nil, fmt.Errorf("sqlite driver not registered")
		}
		return newSQLiteConnection(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".tasklist", "data.db")
}

// IsMemoryPath reports whether path names an in-memory SQLite database.
func IsMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	if IsMemoryPath(path) {
		return nil
	}
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Driver packages register themselves from init; import them for side effects.
var newPostgresConnection func(ctx context.Context, cfg Config) (Connection, error)

var newSQLiteConnection func(ctx context.Context, cfg Config) (Connection, error)

// RegisterPostgresDriver registers the PostgreSQL connection factory.
func RegisterPostgresDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newPostgresConnection = fn
}

// RegisterSQLiteDriver registers the SQLite connection factory.
func RegisterSQLiteDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newSQLiteConnection = fn
}
