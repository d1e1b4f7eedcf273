package migrate

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/plan"
	"github.com/hlop3z/enumig/internal/policy"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CascadeCollector removes the rows that still reference removed values
// when a column's policy is cascade. The default implementation deletes
// them; callers with soft-delete or archival semantics supply their own.
type CascadeCollector interface {
	Collect(ctx context.Context, q Querier, d dialect.Dialect, step plan.DataStep) error
}

// DeleteRows returns the default cascade collector, which hard-deletes
// every row whose column holds a removed value.
func DeleteRows() CascadeCollector {
	return deleteCollector{}
}

type deleteCollector struct{}

func (deleteCollector) Collect(ctx context.Context, q Querier, d dialect.Dialect, step plan.DataStep) error {
	clause, args := inClause(d, 1, step.Removed)
	query := "DELETE FROM " + d.QuoteIdent(step.Table) +
		" WHERE " + d.QuoteIdent(step.Column) + " IN " + clause

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return enerr.Wrap(enerr.ErrSQLExecution, err, "cascade delete failed").
			WithTable(step.Table).
			WithColumn(step.Column).
			WithSQL(query)
	}
	return nil
}

// DataMigrator repairs or rejects rows that reference removed enum values.
type DataMigrator struct {
	dialect   dialect.Dialect
	collector CascadeCollector
}

// NewDataMigrator creates a data migrator. A nil collector selects the
// deleting default.
func NewDataMigrator(d dialect.Dialect, collector CascadeCollector) *DataMigrator {
	if d == nil {
		return nil
	}
	if collector == nil {
		collector = DeleteRows()
	}
	return &DataMigrator{dialect: d, collector: collector}
}

// Run executes every data step against q.
//
// All protect checks run before any mutation, and a protect violation on
// any column aborts the whole batch. The resulting error carries every
// violating column, not just the first, so one run surfaces the full
// repair surface.
func (m *DataMigrator) Run(ctx context.Context, q Querier, steps []plan.DataStep) error {
	type violation struct {
		table, column string
		count         int64
	}
	var violations []violation

	for _, step := range steps {
		if step.Policy.Kind != policy.KindProtect {
			continue
		}
		count, err := m.countReferencing(ctx, q, step)
		if err != nil {
			return err
		}
		if count > 0 {
			violations = append(violations, violation{step.Table, step.Column, count})
		}
	}

	if len(violations) > 0 {
		err := enerr.New(enerr.ErrIntegrity, "rows still reference removed values")
		for _, v := range violations {
			err = err.With(v.table+"."+v.column, v.count)
		}
		return err
	}

	for _, step := range steps {
		if err := m.runStep(ctx, q, step); err != nil {
			return err
		}
	}
	return nil
}

func (m *DataMigrator) runStep(ctx context.Context, q Querier, step plan.DataStep) error {
	d := m.dialect

	switch step.Policy.Kind {
	case policy.KindProtect:
		// Checked up front.
		return nil

	case policy.KindCascade:
		return m.collector.Collect(ctx, q, d, step)

	case policy.KindSetNull:
		clause, args := inClause(d, 1, step.Removed)
		query := "UPDATE " + d.QuoteIdent(step.Table) +
			" SET " + d.QuoteIdent(step.Column) + " = NULL" +
			" WHERE " + d.QuoteIdent(step.Column) + " IN " + clause
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return enerr.Wrap(enerr.ErrSQLExecution, err, "set_null update failed").
				WithTable(step.Table).
				WithColumn(step.Column).
				WithSQL(query)
		}
		return nil

	case policy.KindSetDefault, policy.KindSetValue:
		clause, args := inClause(d, 2, step.Removed)
		query := "UPDATE " + d.QuoteIdent(step.Table) +
			" SET " + d.QuoteIdent(step.Column) + " = " + d.Placeholder(1) +
			" WHERE " + d.QuoteIdent(step.Column) + " IN " + clause
		allArgs := append([]any{step.Policy.Value}, args...)
		if _, err := q.ExecContext(ctx, query, allArgs...); err != nil {
			return enerr.Wrap(enerr.ErrSQLExecution, err, "replacement update failed").
				WithTable(step.Table).
				WithColumn(step.Column).
				WithSQL(query)
		}
		return nil

	default:
		return enerr.New(enerr.ErrPolicyInvalid, "unknown removal policy").
			With("policy", step.Policy.Kind.String())
	}
}

func (m *DataMigrator) countReferencing(ctx context.Context, q Querier, step plan.DataStep) (int64, error) {
	d := m.dialect
	clause, args := inClause(d, 1, step.Removed)
	query := "SELECT COUNT(*) FROM " + d.QuoteIdent(step.Table) +
		" WHERE " + d.QuoteIdent(step.Column) + " IN " + clause

	var count int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, enerr.Wrap(enerr.ErrSQLExecution, err, "protect check failed").
			WithTable(step.Table).
			WithColumn(step.Column).
			WithSQL(query)
	}
	return count, nil
}

// inClause builds a parenthesized placeholder list starting at the given
// 1-based index, plus the matching argument slice.
func inClause(d dialect.Dialect, start int, values []string) (string, []any) {
	parts := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		parts[i] = d.Placeholder(start + i)
		args[i] = v
	}
	return "(" + strings.Join(parts, ", ") + ")", args
}
