package introspect

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/hlop3z/enumig/internal/enerr"
)

// sqliteIntrospector parses enum check constraints out of table DDL in
// sqlite_master. SQLite keeps the original CREATE TABLE text verbatim,
// which is the only place its check constraints are visible.
type sqliteIntrospector struct {
	db *sql.DB
}

// checkClausePattern matches one named enum check constraint inside a
// CREATE TABLE statement: CONSTRAINT "ck_t_c_enum" CHECK ("c" IN (...)).
// Identifier quoting is optional because SQLite preserves whatever the
// author wrote.
var checkClausePattern = regexp.MustCompile(
	`(?i)CONSTRAINT\s+["']?(ck_\w+_enum)["']?\s+CHECK\s*\(\s*["']?(\w+)["']?\s+IN\s*\(([^)]*)\)`)

func (s *sqliteIntrospector) Introspect(ctx context.Context) (*LiveState, error) {
	state := NewLiveState()

	const query = `SELECT name, sql FROM sqlite_master WHERE type = 'table' AND sql IS NOT NULL`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to read sqlite_master")
	}
	defer rows.Close()

	for rows.Next() {
		var table, ddl string
		if err := rows.Scan(&table, &ddl); err != nil {
			return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to scan table DDL")
		}
		for _, m := range checkClausePattern.FindAllStringSubmatch(ddl, -1) {
			constraint, column, list := m[1], m[2], m[3]
			if _, ok := columnFromConstraintName(constraint, table); !ok {
				continue
			}
			values := extractQuotedValues(list)
			if len(values) > 0 {
				state.Checks[table+"."+column] = values
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLExecution, err, "failed to read table DDL")
	}

	return state, nil
}

// TypeExists always reports false: SQLite has no declared enum types.
func (s *sqliteIntrospector) TypeExists(ctx context.Context, name string) (bool, error) {
	return false, nil
}
