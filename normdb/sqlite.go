package normdb

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
)

// SQLStore implements Store on the SQLite schema created by db.Migrate
type SQLStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLStore creates a store over an open, migrated database.
// A nil logger selects the "normdb" component logger.
func NewSQLStore(db *sql.DB, log *zap.SugaredLogger) *SQLStore {
	if log == nil {
		log = logger.ComponentLogger("normdb")
	}
	return &SQLStore{db: db, logger: log}
}

// ScopeOf returns the entity's scope, ScopeLocal when it is unknown.
func (s *SQLStore) ScopeOf(ctx context.Context, dbName, id string) (Scope, error) {
	var scope string
	err := s.db.QueryRowContext(ctx,
		"SELECT scope FROM norm_entities WHERE db_name = ? AND entity_id = ?",
		dbName, id,
	).Scan(&scope)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debugw("Unknown normalization entity treated as local",
			logger.FieldDBName, dbName,
			logger.FieldEntityID, id,
		)
		return ScopeLocal, nil
	}
	if err != nil {
		return "", errors.WrapStoreUnavailable(err, "scope lookup for "+dbName+":"+id)
	}

	result := Scope(scope)
	if !result.Valid() {
		return "", errors.Mark(
			errors.Newf("entity %s:%s has invalid scope %q", dbName, id, scope),
			errors.ErrStoreUnavailable,
		)
	}
	return result, nil
}

// GlobalLinksOf returns the global entities a local entity shadows, in
// insertion order.
func (s *SQLStore) GlobalLinksOf(ctx context.Context, dbName, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT global_id FROM norm_global_links
		 WHERE db_name = ? AND entity_id = ?
		 ORDER BY position, global_id`,
		dbName, id,
	)
	if err != nil {
		return nil, errors.WrapStoreUnavailable(err, "global links lookup for "+dbName+":"+id)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, errors.WrapStoreUnavailable(err, "scan global link")
		}
		links = append(links, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStoreUnavailable(err, "iterate global links for "+dbName+":"+id)
	}
	return links, nil
}

// AttributesOf returns the entity's description rows ordered by position.
func (s *SQLStore) AttributesOf(ctx context.Context, dbName, id string) ([]Attribute, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM norm_attributes
		 WHERE db_name = ? AND entity_id = ?
		 ORDER BY position`,
		dbName, id,
	)
	if err != nil {
		return nil, errors.WrapStoreUnavailable(err, "attributes lookup for "+dbName+":"+id)
	}
	defer rows.Close()

	var attrs []Attribute
	for rows.Next() {
		var a Attribute
		if err := rows.Scan(&a.Key, &a.Value); err != nil {
			return nil, errors.WrapStoreUnavailable(err, "scan attribute")
		}
		attrs = append(attrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStoreUnavailable(err, "iterate attributes for "+dbName+":"+id)
	}
	return attrs, nil
}
