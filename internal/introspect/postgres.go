package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/enumig/internal/enerr"
)

// postgresIntrospector reads declared enum types from pg_catalog and enum
// check constraints from information_schema.
type postgresIntrospector struct {
	db *sql.DB
}

// enumTypesQuery lists every enum label in the current schema search path,
// ordered by the type's declared sort order.
const enumTypesQuery = `
SELECT t.typname, e.enumlabel
FROM pg_type t
JOIN pg_enum e ON e.enumtypid = t.oid
JOIN pg_namespace n ON n.oid = t.typnamespace
WHERE n.nspname = ANY (current_schemas(false))
ORDER BY t.typname, e.enumsortorder`

// enumChecksQuery lists check constraints following the ck_<table>_<column>_enum
// naming convention, with the clause text to parse values from.
const enumChecksQuery = `
SELECT tc.table_name, tc.constraint_name, cc.check_clause
FROM information_schema.table_constraints tc
JOIN information_schema.check_constraints cc
  ON cc.constraint_schema = tc.constraint_schema
 AND cc.constraint_name = tc.constraint_name
WHERE tc.constraint_type = 'CHECK'
  AND tc.constraint_name LIKE 'ck\_%\_enum'
ORDER BY tc.table_name, tc.constraint_name`

func (p *postgresIntrospector) Introspect(ctx context.Context) (*LiveState, error) {
	state := NewLiveState()

	rows, err := p.db.QueryContext(ctx, enumTypesQuery)
	if err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to list enum types")
	}
	defer rows.Close()

	for rows.Next() {
		var typeName, label string
		if err := rows.Scan(&typeName, &label); err != nil {
			return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to scan enum label")
		}
		state.Types[typeName] = append(state.Types[typeName], label)
	}
	if err := rows.Err(); err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to read enum types")
	}

	checkRows, err := p.db.QueryContext(ctx, enumChecksQuery)
	if err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to list check constraints")
	}
	defer checkRows.Close()

	for checkRows.Next() {
		var table, constraint, clause string
		if err := checkRows.Scan(&table, &constraint, &clause); err != nil {
			return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to scan check constraint")
		}
		column, ok := columnFromConstraintName(constraint, table)
		if !ok {
			continue
		}
		values := extractQuotedValues(clause)
		if len(values) > 0 {
			state.Checks[table+"."+column] = values
		}
	}
	if err := checkRows.Err(); err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to read check constraints")
	}

	return state, nil
}

func (p *postgresIntrospector) TypeExists(ctx context.Context, name string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM pg_type t
    JOIN pg_namespace n ON n.oid = t.typnamespace
    WHERE t.typname = $1
      AND t.typtype = 'e'
      AND n.nspname = ANY (current_schemas(false))
)`

	var exists bool
	if err := p.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to check type existence").
			With("type", name)
	}
	return exists, nil
}

// columnFromConstraintName recovers the column name from the
// ck_<table>_<column>_enum convention. Table names containing underscores
// make the split ambiguous, so the known table name anchors it.
func columnFromConstraintName(constraint, table string) (string, bool) {
	prefix := "ck_" + table + "_"
	if !strings.HasPrefix(constraint, prefix) || !strings.HasSuffix(constraint, "_enum") {
		return "", false
	}
	column := strings.TrimSuffix(strings.TrimPrefix(constraint, prefix), "_enum")
	return column, column != ""
}

// extractQuotedValues pulls single-quoted literals out of a check clause in
// order of appearance. PostgreSQL rewrites IN lists into ANY(ARRAY[...])
// form, so value positions are the only stable thing to parse.
func extractQuotedValues(clause string) []string {
	var values []string
	for {
		start := strings.IndexByte(clause, '\'')
		if start < 0 {
			return values
		}
		clause = clause[start+1:]

		var b strings.Builder
		for {
			end := strings.IndexByte(clause, '\'')
			if end < 0 {
				return values
			}
			b.WriteString(clause[:end])
			clause = clause[end+1:]
			// A doubled quote is an escaped literal quote.
			if strings.HasPrefix(clause, "'") {
				b.WriteByte('\'')
				clause = clause[1:]
				continue
			}
			break
		}
		values = append(values, b.String())
	}
}
