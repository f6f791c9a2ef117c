package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a single connection keeps the in-memory schema visible across queries
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate(t *testing.T) {
	t.Run("applies all migrations", func(t *testing.T) {
		db := openMemory(t)
		require.NoError(t, Migrate(db, nil))

		var versions []string
		rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
		require.NoError(t, err)
		defer rows.Close()
		for rows.Next() {
			var v string
			require.NoError(t, rows.Scan(&v))
			versions = append(versions, v)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{"000", "001"}, versions)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := openMemory(t)
		require.NoError(t, Migrate(db, nil))
		require.NoError(t, Migrate(db, nil))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("scope is constrained", func(t *testing.T) {
		db := openMemory(t)
		require.NoError(t, Migrate(db, nil))

		_, err := db.Exec("INSERT INTO norm_entities (db_name, entity_id, scope) VALUES ('gnd', '1', 'shared')")
		assert.Error(t, err)
	})
}

func TestSchemaVersion(t *testing.T) {
	db := openMemory(t)

	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, Migrate(db, nil))
	v, err = SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, "001", v)
}

func TestMigrate_ResumesPartialSchema(t *testing.T) {
	db := openMemory(t)
	_, err := db.Exec(`CREATE TABLE schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP);
		INSERT INTO schema_migrations (version) VALUES ('000')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db, nil))

	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, "001", v)
}
