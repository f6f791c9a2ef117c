// Package normdb answers normalization lookups: whether a normalized entity is
// shared across documents, which global entities a local one shadows, and the
// description rows emitted for global entities.
package normdb

import (
	"context"
)

// Scope says whether a normalized entity is shared across documents
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

// Valid reports whether s is one of the known scopes
func (s Scope) Valid() bool {
	return s == ScopeGlobal || s == ScopeLocal
}

// Attribute is one description row of an entity, e.g. Name or Category.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store is the normalization lookup contract consumed by conversions.
// Every call may block; failures are marked errors.ErrStoreUnavailable.
// Entities the store has never seen are local with no links or attributes.
type Store interface {
	ScopeOf(ctx context.Context, dbName, id string) (Scope, error)
	GlobalLinksOf(ctx context.Context, dbName, id string) ([]string, error)
	AttributesOf(ctx context.Context, dbName, id string) ([]Attribute, error)
}
