//go:build integration

package data

import (
	"os"
	"testing"

	"portfolio-cms/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a new in-memory SQLite database with the full schema
// applied. The database is closed when the test finishes.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewDB(config.DBConfig{Driver: "sqlite3", DSN: "file::memory:"})
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/000001_initial_schema.up.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	db.MustExec(string(schema))
	return db
}

// seedLanguage inserts a language and fails the test on error.
func seedLanguage(t *testing.T, repo *SQLLanguageRepository, code string, active bool) *Language {
	t.Helper()
	lang := &Language{Code: code, Name: code, IsActive: active}
	if err := repo.Create(t.Context(), lang); err != nil {
		t.Fatalf("failed to seed language %s: %v", code, err)
	}
	return lang
}
