// Package introspect discovers the enum state actually present in a
// database. It queries system catalogs for declared enum types and parses
// check constraints for emulated ones, producing a LiveState for drift
// comparison.
package introspect

import (
	"context"
	"database/sql"

	"github.com/hlop3z/enumig/internal/dialect"
)

// LiveState is the enum-relevant schema observed in a database.
type LiveState struct {
	// Types maps each declared enum type name to its labels in
	// declaration order. Empty on dialects without declared types.
	Types map[string][]string

	// Checks maps "table.column" to the value list enforced by an enum
	// check constraint on that column, in constraint order.
	Checks map[string][]string
}

// NewLiveState returns an empty live state.
func NewLiveState() *LiveState {
	return &LiveState{
		Types:  make(map[string][]string),
		Checks: make(map[string][]string),
	}
}

// ColumnValues returns the value set observed for a column, preferring the
// column's check constraint and falling back to its declared type.
func (s *LiveState) ColumnValues(table, column, enumType string) ([]string, bool) {
	if vals, ok := s.Checks[table+"."+column]; ok {
		return vals, true
	}
	if vals, ok := s.Types[enumType]; ok {
		return vals, true
	}
	return nil, false
}

// Introspector reads the live enum state from one database.
type Introspector interface {
	// Introspect returns every declared enum type and every enum check
	// constraint visible to the connection.
	Introspect(ctx context.Context) (*LiveState, error)

	// TypeExists reports whether a declared enum type with the given
	// name exists.
	TypeExists(ctx context.Context, name string) (bool, error)
}

// New creates an Introspector for the dialect. Returns nil if the dialect
// has no introspector.
func New(db *sql.DB, d dialect.Dialect) Introspector {
	switch d.Name() {
	case "postgres":
		return &postgresIntrospector{db: db}
	case "sqlite":
		return &sqliteIntrospector{db: db}
	default:
		return nil
	}
}
