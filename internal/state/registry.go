// Package state tracks the recorded enum snapshots and the columns typed
// with each enum. It is the bookkeeping side of the migration pipeline:
// operations read the previous snapshot from here and replace it wholesale
// when they complete.
package state

import (
	"sort"

	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/enumset"
	"github.com/hlop3z/enumig/internal/ident"
	"github.com/hlop3z/enumig/internal/policy"
)

// ColumnRef identifies one column whose declared type is an enum, together
// with its declaration-time removal policy. ColumnRefs are recomputed per
// alteration, never cached across alterations.
type ColumnRef struct {
	Table    string               `yaml:"table"`
	Column   string               `yaml:"column"`
	Enum     string               `yaml:"enum"`
	Default  string               `yaml:"default,omitempty"`
	OnRemove policy.RemovalPolicy `yaml:"on_remove"`
}

// Registry holds the recorded enum state for one database.
type Registry struct {
	enums   map[string]enumset.Snapshot
	columns []ColumnRef
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		enums: make(map[string]enumset.Snapshot),
	}
}

// Clone returns an independent copy of the registry. Snapshots are
// immutable values, so only the containers need copying.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		enums:   make(map[string]enumset.Snapshot, len(r.enums)),
		columns: make([]ColumnRef, len(r.columns)),
	}
	for name, snap := range r.enums {
		out.enums[name] = snap
	}
	copy(out.columns, r.columns)
	return out
}

// EnumSnapshot returns the recorded snapshot for the named enum.
func (r *Registry) EnumSnapshot(name string) (enumset.Snapshot, error) {
	snap, ok := r.enums[name]
	if !ok {
		return enumset.Snapshot{}, enerr.New(enerr.ErrStateNotFound, "enum does not exist").
			WithEnum(name).
			WithSuggestion(name, r.EnumNames())
	}
	return snap, nil
}

// HasEnum reports whether the named enum is recorded.
func (r *Registry) HasEnum(name string) bool {
	_, ok := r.enums[name]
	return ok
}

// SetEnumSnapshot records the snapshot for the named enum, replacing any
// previous snapshot. Replacement is wholesale, never a merge.
func (r *Registry) SetEnumSnapshot(name string, snap enumset.Snapshot) {
	r.enums[name] = snap.WithName(name)
}

// RemoveEnum deletes the named enum from the registry.
// It fails if any column is still typed with the enum.
func (r *Registry) RemoveEnum(name string) error {
	if _, ok := r.enums[name]; !ok {
		return enerr.New(enerr.ErrStateNotFound, "enum does not exist").
			WithEnum(name)
	}
	if cols := r.ColumnsTypedAs(name); len(cols) > 0 {
		return enerr.New(enerr.ErrStateConflict, "enum is still referenced by columns").
			WithEnum(name).
			With("columns", len(cols))
	}
	delete(r.enums, name)
	return nil
}

// RenameEnum renames an enum and retypes every column declared with it.
func (r *Registry) RenameEnum(oldName, newName string) error {
	snap, ok := r.enums[oldName]
	if !ok {
		return enerr.New(enerr.ErrStateNotFound, "enum does not exist").
			WithEnum(oldName)
	}
	if _, exists := r.enums[newName]; exists {
		return enerr.New(enerr.ErrStateConflict, "enum already exists").
			WithEnum(newName)
	}
	delete(r.enums, oldName)
	r.enums[newName] = snap.WithName(newName)
	for i := range r.columns {
		if r.columns[i].Enum == oldName {
			r.columns[i].Enum = newName
		}
	}
	return nil
}

// AddColumn registers a column as typed with an enum.
// The enum must already be recorded.
func (r *Registry) AddColumn(col ColumnRef) error {
	if err := ident.ValidName("table", col.Table); err != nil {
		return err
	}
	if err := ident.ValidName("column", col.Column); err != nil {
		return err
	}
	if _, ok := r.enums[col.Enum]; !ok {
		return enerr.New(enerr.ErrStateNotFound, "column references an unknown enum").
			WithEnum(col.Enum).
			WithTable(col.Table).
			WithColumn(col.Column).
			WithSuggestion(col.Enum, r.EnumNames())
	}
	for _, existing := range r.columns {
		if existing.Table == col.Table && existing.Column == col.Column {
			return enerr.New(enerr.ErrStateConflict, "column is already registered").
				WithTable(col.Table).
				WithColumn(col.Column)
		}
	}
	r.columns = append(r.columns, col)
	return nil
}

// RemoveColumn unregisters a column.
func (r *Registry) RemoveColumn(table, column string) {
	kept := r.columns[:0]
	for _, c := range r.columns {
		if c.Table != table || c.Column != column {
			kept = append(kept, c)
		}
	}
	r.columns = kept
}

// ColumnsTypedAs returns every registered column whose declared type is
// the named enum, in registration order.
func (r *Registry) ColumnsTypedAs(enumName string) []ColumnRef {
	var cols []ColumnRef
	for _, c := range r.columns {
		if c.Enum == enumName {
			cols = append(cols, c)
		}
	}
	return cols
}

// Columns returns all registered columns in registration order.
func (r *Registry) Columns() []ColumnRef {
	out := make([]ColumnRef, len(r.columns))
	copy(out, r.columns)
	return out
}

// EnumNames returns the recorded enum names, sorted for determinism.
func (r *Registry) EnumNames() []string {
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
