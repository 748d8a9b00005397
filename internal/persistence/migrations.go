package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Timestamps are stored as integer epoch-seconds (unixepoch); the repository
// layer converts to epoch-milliseconds at the scan boundary.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (unixepoch())
	)`,
	`CREATE TABLE IF NOT EXISTS help_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		answer TEXT,
		created_at INTEGER NOT NULL DEFAULT (unixepoch()),
		resolved_at INTEGER,
		FOREIGN KEY (customer_id) REFERENCES customers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS knowledge_base (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		category TEXT,
		learned_at INTEGER NOT NULL DEFAULT (unixepoch()),
		usage_count INTEGER NOT NULL DEFAULT 0
	)`,
}

// RunMigrations creates the schema when missing.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no database handle available; skipping migrations")
		return nil
	}

	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(schemaStatements)))
	return nil
}

// SchemaSQL exposes the DDL for test databases so test schemas cannot drift
// from the one the service boots with.
func SchemaSQL() []string {
	out := make([]string, len(schemaStatements))
	copy(out, schemaStatements)
	return out
}
