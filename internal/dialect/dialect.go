// Package dialect provides database-specific SQL generation for enum
// lifecycle DDL. Each dialect implements identifier quoting, parameter
// placeholders, and the template operations the planner composes into a
// migration plan.
package dialect

// Capabilities describes what the active database can do with enum types.
// The planner branches over this descriptor alone; dialects never leak
// behavior into planning any other way, so synthetic combinations that map
// to no real database remain testable.
type Capabilities struct {
	// HasEnum is true when the database has a real enum column type,
	// declared or inline.
	HasEnum bool

	// RequiresDeclaration is true when enum types are first-class DDL
	// objects that must be created, altered, and dropped by name.
	// False with HasEnum means inline enum column types (MySQL style).
	RequiresDeclaration bool

	// TransactionalDDL is true when DDL statements can run inside a
	// transaction and roll back on failure.
	TransactionalDDL bool

	// AlterableConstraints is true when a named CHECK constraint can be
	// dropped and re-added on an existing table. SQLite cannot; its
	// emulated enums are enforced by data migration only.
	AlterableConstraints bool
}

// Dialect defines database-specific SQL generation for enum operations.
// Implementations exist for PostgreSQL (declared types or CHECK-emulated)
// and SQLite.
type Dialect interface {
	// Name returns the dialect name (postgres, sqlite).
	Name() string

	// Capabilities returns the enum capability descriptor.
	Capabilities() Capabilities

	// QuoteIdent quotes an identifier (table/column/type name).
	QuoteIdent(name string) string

	// QuoteLiteral quotes a string literal for inlining into DDL.
	// DDL statements cannot carry bind parameters on most drivers.
	QuoteLiteral(value string) string

	// Placeholder returns the bind-parameter placeholder for the given
	// 1-based index, used by data-migration statements.
	// PostgreSQL: $1, $2, ... SQLite: ?.
	Placeholder(index int) string

	// -------------------------------------------------------------------------
	// Declared-enum template operations
	// -------------------------------------------------------------------------

	// CreateTypeSQL generates CREATE TYPE name AS ENUM (...).
	CreateTypeSQL(name string, values []string) (string, error)

	// DropTypeSQL generates DROP TYPE name.
	DropTypeSQL(name string) (string, error)

	// RenameTypeSQL generates ALTER TYPE old RENAME TO new.
	RenameTypeSQL(oldName, newName string) (string, error)

	// AddValueSQL generates ALTER TYPE name ADD VALUE 'v'.
	AddValueSQL(name, value string) (string, error)

	// AlterColumnTypeSQL generates the statement retyping a column to the
	// given already-rendered type expression.
	AlterColumnTypeSQL(table, column, typeExpr string) (string, error)

	// -------------------------------------------------------------------------
	// Emulated-enum template operations
	// -------------------------------------------------------------------------

	// ColumnTypeSQL renders the column type declaration for an enum with
	// the given values. Inline-enum databases render enum('a', 'b');
	// emulated databases render their text type.
	ColumnTypeSQL(values []string) string

	// AddCheckSQL generates the ADD CONSTRAINT ... CHECK (col IN (...))
	// statement asserting a column's value set.
	AddCheckSQL(table, column string, values []string) (string, error)

	// DropCheckSQL generates the DROP CONSTRAINT statement for the
	// column's enum check constraint.
	DropCheckSQL(table, column string) (string, error)
}

// Get returns the dialect implementation for the given name.
// Valid names: "postgres", "postgresql", "sqlite", "sqlite3".
// Returns nil if the dialect is not supported.
func Get(name string) Dialect {
	switch name {
	case "postgres", "postgresql":
		return Postgres()
	case "sqlite", "sqlite3":
		return SQLite()
	default:
		return nil
	}
}

// Names returns the list of supported dialect names.
func Names() []string {
	return []string{"postgres", "sqlite"}
}

// CheckConstraintName returns the deterministic name of the enum check
// constraint for a column, shared by SQL generation and introspection.
func CheckConstraintName(table, column string) string {
	return "ck_" + table + "_" + column + "_enum"
}
