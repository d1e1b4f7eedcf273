package dialect

import (
	"github.com/hlop3z/enumig/internal/enerr"
)

// sqlite implements the Dialect interface for SQLite.
// SQLite has no enum type; enums are TEXT columns with a CHECK constraint
// written at table creation. Constraints cannot be altered afterward, so
// alterations rely on data migration for enforcement.
type sqlite struct{}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	return &sqlite{}
}

func (d *sqlite) Name() string {
	return "sqlite"
}

func (d *sqlite) Capabilities() Capabilities {
	return Capabilities{
		TransactionalDDL: true,
	}
}

// -----------------------------------------------------------------------------
// Identifiers and literals
// -----------------------------------------------------------------------------

func (d *sqlite) QuoteIdent(name string) string {
	return quoteIdentDoubleQuote(name)
}

func (d *sqlite) QuoteLiteral(value string) string {
	return quoteLiteralSingleQuote(value)
}

func (d *sqlite) Placeholder(index int) string {
	// SQLite uses ? for all placeholders
	return "?"
}

// -----------------------------------------------------------------------------
// Declared-enum template operations
// SQLite has no type objects; these are capability errors by construction.
// The planner never reaches them when branching over Capabilities.
// -----------------------------------------------------------------------------

func (d *sqlite) CreateTypeSQL(name string, values []string) (string, error) {
	return sqliteNoTypes("create enum type", name)
}

func (d *sqlite) DropTypeSQL(name string) (string, error) {
	return sqliteNoTypes("drop enum type", name)
}

func (d *sqlite) RenameTypeSQL(oldName, newName string) (string, error) {
	return sqliteNoTypes("rename enum type", oldName)
}

func (d *sqlite) AddValueSQL(name, value string) (string, error) {
	return sqliteNoTypes("add value to enum type", name)
}

func (d *sqlite) AlterColumnTypeSQL(table, column, typeExpr string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "SQLite does not support ALTER COLUMN TYPE; use table recreation pattern").
		WithTable(table).
		WithColumn(column)
}

// sqliteNoTypes returns a standardized error for declared-type operations.
func sqliteNoTypes(op, name string) (string, error) {
	return "", enerr.Newf(enerr.ErrUnsupportedOperation, "SQLite has no declared enum types; cannot %s", op).
		WithEnum(name)
}

// -----------------------------------------------------------------------------
// Emulated-enum template operations
// -----------------------------------------------------------------------------

func (d *sqlite) ColumnTypeSQL(values []string) string {
	return "TEXT"
}

func (d *sqlite) AddCheckSQL(table, column string, values []string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "SQLite does not support ALTER TABLE ADD CHECK; use table recreation pattern").
		WithTable(table).
		WithColumn(column)
}

func (d *sqlite) DropCheckSQL(table, column string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "SQLite does not support ALTER TABLE DROP CHECK; use table recreation pattern").
		WithTable(table).
		WithColumn(column)
}
