package migrate

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/plan"
)

// Executor applies plans against a database in the fixed order
// pre-actions, data migration, post-actions.
type Executor struct {
	db      *sql.DB
	dialect dialect.Dialect
	data    *DataMigrator
}

// NewExecutor creates an executor. A nil collector selects the deleting
// cascade default. Returns nil if db or d is nil.
func NewExecutor(db *sql.DB, d dialect.Dialect, collector CascadeCollector) *Executor {
	if db == nil || d == nil {
		return nil
	}
	return &Executor{
		db:      db,
		dialect: d,
		data:    NewDataMigrator(d, collector),
	}
}

// Dialect returns the dialect the executor targets.
func (e *Executor) Dialect() dialect.Dialect {
	return e.dialect
}

// Apply executes the plan. On dialects with transactional DDL the whole
// plan runs in one transaction and a failure rolls everything back. On
// other dialects a mid-plan failure can leave scratch types behind; the
// returned error names them so the operator can clean up.
func (e *Executor) Apply(ctx context.Context, p *plan.Plan) error {
	if p == nil || p.IsEmpty() {
		return nil
	}

	for _, note := range p.Notes {
		slog.Warn(note, "enum", p.Enum)
	}

	if e.dialect.Capabilities().TransactionalDDL {
		return e.applyTransactional(ctx, p)
	}
	return e.applyDirect(ctx, p)
}

func (e *Executor) applyTransactional(ctx context.Context, p *plan.Plan) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return enerr.Wrap(enerr.ErrSQLTransaction, err, "failed to begin transaction").
			WithEnum(p.Enum)
	}

	if err := e.runPhases(ctx, tx, p); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("rollback failed", "enum", p.Enum, "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return enerr.Wrap(enerr.ErrSQLTransaction, err, "failed to commit transaction").
			WithEnum(p.Enum)
	}
	return nil
}

// applyDirect runs each statement autocommitted, tracking which scratch
// types exist at every point so a failure can report them.
func (e *Executor) applyDirect(ctx context.Context, p *plan.Plan) error {
	live := newScratchTracker(p.ScratchTypes)

	fail := func(err error) error {
		// With no scratch types live, nothing is partially applied and
		// the original error code must stay observable.
		names := live.names()
		if len(names) == 0 {
			return err
		}
		wrapped := enerr.Wrap(enerr.ErrTransitionalState, err,
			"plan failed mid-sequence; database holds a partially applied alteration").
			WithEnum(p.Enum)
		for _, name := range names {
			wrapped = wrapped.WithScratchType(name)
		}
		return wrapped
	}

	for _, stmt := range p.Pre {
		if err := e.exec(ctx, e.db, p.Enum, stmt); err != nil {
			return fail(err)
		}
		live.observe(stmt.SQL)
	}
	if err := e.data.Run(ctx, e.db, p.Data); err != nil {
		return fail(err)
	}
	for _, stmt := range p.Post {
		if err := e.exec(ctx, e.db, p.Enum, stmt); err != nil {
			return fail(err)
		}
		live.observe(stmt.SQL)
	}
	return nil
}

func (e *Executor) runPhases(ctx context.Context, q Querier, p *plan.Plan) error {
	for _, stmt := range p.Pre {
		if err := e.exec(ctx, q, p.Enum, stmt); err != nil {
			return err
		}
	}
	if err := e.data.Run(ctx, q, p.Data); err != nil {
		return err
	}
	for _, stmt := range p.Post {
		if err := e.exec(ctx, q, p.Enum, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) exec(ctx context.Context, q Querier, enum string, stmt plan.Statement) error {
	slog.Debug("executing", "enum", enum, "sql", stmt.SQL)
	if _, err := q.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return enerr.Wrap(enerr.ErrSQLExecution, err, "statement failed").
			WithEnum(enum).
			WithSQL(stmt.SQL)
	}
	return nil
}

// scratchTracker follows which scratch types currently exist by watching
// the statements that create and drop them.
type scratchTracker struct {
	known []string
	live  map[string]bool
}

func newScratchTracker(names []string) *scratchTracker {
	return &scratchTracker{known: names, live: make(map[string]bool, len(names))}
}

func (t *scratchTracker) observe(sql string) {
	before, _, renamed := strings.Cut(sql, " RENAME TO ")
	for _, name := range t.known {
		switch {
		case strings.HasPrefix(sql, "CREATE") && strings.Contains(sql, name):
			t.live[name] = true
		case strings.HasPrefix(sql, "DROP") && strings.Contains(sql, name):
			delete(t.live, name)
		case renamed && strings.Contains(before, name):
			// A rename retires the scratch name even though the type
			// object survives under its new name.
			delete(t.live, name)
		}
	}
}

func (t *scratchTracker) names() []string {
	var out []string
	for _, name := range t.known {
		if t.live[name] {
			out = append(out, name)
		}
	}
	return out
}
