package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/standoff/errors"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationDir = "sqlite/migrations"

// normTables must exist once every migration has run
var normTables = []string{"norm_entities", "norm_attributes", "norm_global_links"}

// migration is one embedded script, versioned by its numeric file prefix
type migration struct {
	version string
	file    string
}

func embeddedMigrations() ([]migration, error) {
	entries, err := migrations.ReadDir(migrationDir)
	if err != nil {
		return nil, errors.Wrap(err, "read embedded normalization schema")
	}
	var out []migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, _, _ := strings.Cut(name, "_")
		out = append(out, migration{version: version, file: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, errors.Wrapf(err, "look up table %s", name)
	}
	return n > 0, nil
}

func appliedVersions(db *sql.DB) (map[string]bool, error) {
	applied := make(map[string]bool)
	ok, err := tableExists(db, "schema_migrations")
	if err != nil || !ok {
		return applied, err
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "read applied schema versions")
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema version")
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// SchemaVersion returns the newest applied schema version, or "" for a
// database that was never migrated.
func SchemaVersion(db *sql.DB) (string, error) {
	ok, err := tableExists(db, "schema_migrations")
	if err != nil || !ok {
		return "", err
	}
	var v sql.NullString
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return "", errors.Wrap(err, "read schema version")
	}
	return v.String, nil
}

// Migrate brings the normalization schema up to date. Each script runs in
// its own transaction together with its schema_migrations row.
// logger may be nil.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	all, err := embeddedMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range all {
		if applied[m.version] {
			continue
		}
		// 000 creates schema_migrations; nothing else may run before it
		if len(applied) == 0 && count == 0 && m.version != "000" {
			return errors.Newf("normalization schema has no bookkeeping table and %s is not 000", m.file)
		}
		if err := apply(db, m); err != nil {
			return err
		}
		count++
		if logger != nil {
			logger.Infow("Applied normalization schema change", "migration", m.file, "version", m.version)
		}
	}

	for _, table := range normTables {
		ok, err := tableExists(db, table)
		if err != nil {
			return err
		}
		if !ok {
			return errors.WithHint(
				errors.Newf("normalization table %s missing after migration", table),
				"the database may belong to another tool; point database.path at a fresh file",
			)
		}
	}

	if logger != nil {
		version, _ := SchemaVersion(db)
		logger.Debugw("Normalization schema ready", "schema_version", version, "applied", count)
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	script, err := migrations.ReadFile(path.Join(migrationDir, m.file))
	if err != nil {
		return errors.Wrapf(err, "read %s", m.file)
	}
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin %s", m.file)
	}
	if _, err := tx.Exec(string(script)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "apply %s", m.file)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}
