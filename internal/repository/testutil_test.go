// Package repository_test contains integration tests for the sqlite
// repositories. All test setup goes through setupTestDB, which loads the
// authoritative schema from the persistence package so test schemas cannot
// drift from the one the service boots with.
package repository_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spec-kit/escalation-service/internal/persistence"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// a second pool connection would see a different empty in-memory db
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	for _, stmt := range persistence.SchemaSQL() {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedCustomer inserts a test customer and returns its id.
func seedCustomer(t *testing.T, db *sql.DB, name, phone string) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO customers (name, phone) VALUES (?, ?)", name, phone)
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read customer id: %v", err)
	}
	return id
}
