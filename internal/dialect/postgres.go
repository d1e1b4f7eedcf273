package dialect

import (
	"strconv"
	"strings"
)

// postgres implements the Dialect interface for PostgreSQL.
// By default enums are declared types (CREATE TYPE ... AS ENUM); the
// check-constraint strategy is available through PostgresWithChecks.
type postgres struct {
	checks bool
}

// Postgres returns the PostgreSQL dialect with declared enum types.
func Postgres() Dialect {
	return &postgres{}
}

// PostgresWithChecks returns the PostgreSQL dialect with enums emulated as
// VARCHAR columns constrained by named CHECK constraints. Useful when the
// schema must stay portable to databases without declared types.
func PostgresWithChecks() Dialect {
	return &postgres{checks: true}
}

func (d *postgres) Name() string {
	return "postgres"
}

func (d *postgres) Capabilities() Capabilities {
	if d.checks {
		return Capabilities{
			TransactionalDDL:     true,
			AlterableConstraints: true,
		}
	}
	return Capabilities{
		HasEnum:              true,
		RequiresDeclaration:  true,
		TransactionalDDL:     true,
		AlterableConstraints: true,
	}
}

// -----------------------------------------------------------------------------
// Identifiers and literals
// -----------------------------------------------------------------------------

func (d *postgres) QuoteIdent(name string) string {
	// PostgreSQL uses double quotes for identifiers
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

func (d *postgres) QuoteLiteral(value string) string {
	return quoteLiteralSingleQuote(value)
}

func (d *postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// -----------------------------------------------------------------------------
// Declared-enum template operations
// -----------------------------------------------------------------------------

func (d *postgres) CreateTypeSQL(name string, values []string) (string, error) {
	var b strings.Builder

	b.WriteString("CREATE TYPE ")
	b.WriteString(d.QuoteIdent(name))
	b.WriteString(" AS ENUM (")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.QuoteLiteral(v))
	}
	b.WriteString(")")

	return b.String(), nil
}

func (d *postgres) DropTypeSQL(name string) (string, error) {
	return "DROP TYPE " + d.QuoteIdent(name), nil
}

func (d *postgres) RenameTypeSQL(oldName, newName string) (string, error) {
	var b strings.Builder

	b.WriteString("ALTER TYPE ")
	b.WriteString(d.QuoteIdent(oldName))
	b.WriteString(" RENAME TO ")
	b.WriteString(d.QuoteIdent(newName))

	return b.String(), nil
}

func (d *postgres) AddValueSQL(name, value string) (string, error) {
	var b strings.Builder

	b.WriteString("ALTER TYPE ")
	b.WriteString(d.QuoteIdent(name))
	b.WriteString(" ADD VALUE ")
	b.WriteString(d.QuoteLiteral(value))

	return b.String(), nil
}

func (d *postgres) AlterColumnTypeSQL(table, column, typeExpr string) (string, error) {
	var b strings.Builder

	// The explicit text cast lets values cross between unrelated enum types.
	b.WriteString("ALTER TABLE ")
	b.WriteString(d.QuoteIdent(table))
	b.WriteString(" ALTER COLUMN ")
	b.WriteString(d.QuoteIdent(column))
	b.WriteString(" TYPE ")
	b.WriteString(typeExpr)
	b.WriteString(" USING ")
	b.WriteString(d.QuoteIdent(column))
	b.WriteString("::text::")
	b.WriteString(typeExpr)

	return b.String(), nil
}

// -----------------------------------------------------------------------------
// Emulated-enum template operations
// -----------------------------------------------------------------------------

func (d *postgres) ColumnTypeSQL(values []string) string {
	// Check-constraint strategy stores enum values in a bounded varchar.
	return "VARCHAR(50)"
}

func (d *postgres) AddCheckSQL(table, column string, values []string) (string, error) {
	return buildAddCheckSQL(table, column, values, d.QuoteIdent, d.QuoteLiteral), nil
}

func (d *postgres) DropCheckSQL(table, column string) (string, error) {
	var b strings.Builder

	b.WriteString("ALTER TABLE ")
	b.WriteString(d.QuoteIdent(table))
	b.WriteString(" DROP CONSTRAINT ")
	b.WriteString(d.QuoteIdent(CheckConstraintName(table, column)))

	return b.String(), nil
}
