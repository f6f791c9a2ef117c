package testing

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teranos/standoff/db"
)

// CreateTestDB creates an in-memory SQLite normalization database with all
// migrations applied. Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Every pooled connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.Migrate(testDB, nil); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// SeedEntity inserts a normalization entity with its description rows.
// Rows are given as alternating key, value pairs.
func SeedEntity(t *testing.T, testDB *sql.DB, dbName, entityID, scope string, rows ...string) {
	t.Helper()

	if _, err := testDB.Exec(
		"INSERT INTO norm_entities (db_name, entity_id, scope) VALUES (?, ?, ?)",
		dbName, entityID, scope,
	); err != nil {
		t.Fatalf("Failed to seed entity %s:%s: %v", dbName, entityID, err)
	}

	for i := 0; i+1 < len(rows); i += 2 {
		if _, err := testDB.Exec(
			"INSERT INTO norm_attributes (db_name, entity_id, position, key, value) VALUES (?, ?, ?, ?, ?)",
			dbName, entityID, i/2, rows[i], rows[i+1],
		); err != nil {
			t.Fatalf("Failed to seed attribute %s for %s:%s: %v", rows[i], dbName, entityID, err)
		}
	}
}

// SeedGlobalLinks links a local entity to global entity IDs in order.
func SeedGlobalLinks(t *testing.T, testDB *sql.DB, dbName, entityID string, globalIDs ...string) {
	t.Helper()

	for i, g := range globalIDs {
		if _, err := testDB.Exec(
			"INSERT INTO norm_global_links (db_name, entity_id, global_id, position) VALUES (?, ?, ?, ?)",
			dbName, entityID, g, i,
		); err != nil {
			t.Fatalf("Failed to seed global link %s -> %s: %v", entityID, g, err)
		}
	}
}
