package normdb

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"strings"

	"github.com/teranos/standoff/errors"
)

// ImportResult counts the rows written by Import
type ImportResult struct {
	Entities   int `json:"entities"`
	Attributes int `json:"attributes"`
	Links      int `json:"links"`
	Skipped    int `json:"skipped"`
}

// Import seeds the normalization database from tab-separated rows:
//
//	entity	<db>	<id>	<global|local>
//	attr	<db>	<id>	<key>	<value>
//	link	<db>	<id>	<global id>
//
// Blank lines and lines starting with # are ignored. Rows referring to an
// undeclared entity create it as local. The whole file is one transaction.
func Import(ctx context.Context, db *sql.DB, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin import")
	}
	defer tx.Rollback()

	result := &ImportResult{}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read import row")
		}
		line, _ := reader.FieldPos(0)

		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		switch fields[0] {
		case "entity":
			if len(fields) < 4 || !Scope(fields[3]).Valid() {
				return nil, errors.WithHint(
					errors.Newf("line %d: entity rows need db, id and a scope of global or local", line),
					"entity\t<db>\t<id>\t<global|local>",
				)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO norm_entities (db_name, entity_id, scope) VALUES (?, ?, ?)
				 ON CONFLICT (db_name, entity_id) DO UPDATE SET scope = excluded.scope`,
				fields[1], fields[2], fields[3],
			); err != nil {
				return nil, errors.Wrapf(err, "line %d: insert entity", line)
			}
			result.Entities++

		case "attr":
			if len(fields) < 5 {
				return nil, errors.Newf("line %d: attr rows need db, id, key and value", line)
			}
			if err := ensureEntity(ctx, tx, fields[1], fields[2]); err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			// Values may contain tabs; everything after the key is the value
			value := strings.Join(fields[4:], "\t")
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO norm_attributes (db_name, entity_id, position, key, value)
				 VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM norm_attributes WHERE db_name = ? AND entity_id = ?), ?, ?)`,
				fields[1], fields[2], fields[1], fields[2], fields[3], value,
			); err != nil {
				return nil, errors.Wrapf(err, "line %d: insert attribute", line)
			}
			result.Attributes++

		case "link":
			if len(fields) < 4 {
				return nil, errors.Newf("line %d: link rows need db, id and global id", line)
			}
			if err := ensureEntity(ctx, tx, fields[1], fields[2]); err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			res, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO norm_global_links (db_name, entity_id, global_id, position)
				 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM norm_global_links WHERE db_name = ? AND entity_id = ?))`,
				fields[1], fields[2], fields[3], fields[1], fields[2],
			)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: insert link", line)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				result.Skipped++
				continue
			}
			result.Links++

		default:
			return nil, errors.Newf("line %d: unknown row kind %q", line, fields[0])
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit import")
	}
	return result, nil
}

func ensureEntity(ctx context.Context, tx *sql.Tx, dbName, id string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO norm_entities (db_name, entity_id, scope) VALUES (?, ?, 'local')",
		dbName, id,
	)
	return errors.Wrapf(err, "ensure entity %s:%s", dbName, id)
}
