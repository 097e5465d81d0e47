// Package database provides the report history store.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 10
	// DefaultConnMaxLifetime is the default maximum connection lifetime
	DefaultConnMaxLifetime = time.Hour
	// DefaultPingTimeout is the default timeout for ping operations
	DefaultPingTimeout = 5 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS breakdown_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	script_id TEXT NOT NULL,
	report_json TEXT NOT NULL,
	element_count INTEGER NOT NULL,
	conflict_count INTEGER NOT NULL,
	overall_confidence REAL NOT NULL,
	extraction_confidence REAL NOT NULL,
	human_review_required INTEGER NOT NULL,
	processing_time_ms INTEGER NOT NULL,
	generated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_breakdown_history_script_id
	ON breakdown_history (script_id, generated_at DESC);
`

// Config holds database configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteConnection opens the report history database, applying the schema
// on first use.
func NewSQLiteConnection(cfg Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", cfg.Path)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	maxConns := cfg.MaxOpenConns
	if maxConns == 0 {
		maxConns = DefaultMaxOpenConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = DefaultConnMaxLifetime
	}
	db.SetMaxOpenConns(maxConns)
	db.SetConnMaxLifetime(lifetime)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
