// Package enumig is the embedding API for the enumig enum migration tool.
// It manages the value sets of database enums across PostgreSQL and SQLite,
// planning safe alterations and migrating the rows affected by removed
// values according to per-column policies.
package enumig

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/drift"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/migrate"
	"github.com/hlop3z/enumig/internal/plan"
	"github.com/hlop3z/enumig/internal/policy"
	"github.com/hlop3z/enumig/internal/state"
)

// ErrMissingDatabaseURL is returned by New when no database URL was
// configured.
var ErrMissingDatabaseURL = enerr.New(enerr.ErrConfigInvalid, "no database URL configured")

// Client is the main entry point for embedding enumig.
//
// Create a client with New() and close it with Close() when done.
//
// Example:
//
//	client, err := enumig.New(
//	    enumig.WithDatabaseURL("postgres://localhost/mydb"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.AlterEnum(ctx, enumig.Alteration{
//	    Enum:   "color",
//	    Remove: []string{"blue"},
//	})
type Client struct {
	db      *sql.DB
	dialect dialect.Dialect
	config  *Config
	exec    *migrate.Executor
}

// New creates a new Client with the given options.
// At minimum, WithDatabaseURL must be provided; the dialect is
// auto-detected from the URL when not set explicitly.
func New(opts ...Option) (*Client, error) {
	cfg := &Config{
		StateFile: "enumig.state.yaml",
		Timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	if cfg.Dialect == "" {
		cfg.Dialect = detectDialect(cfg.DatabaseURL)
	}

	var d dialect.Dialect
	if cfg.Dialect == "postgres" && cfg.Checks {
		d = dialect.PostgresWithChecks()
	} else {
		d = dialect.Get(cfg.Dialect)
	}
	if d == nil {
		return nil, enerr.New(enerr.ErrConfigInvalid, "unknown dialect").
			With("dialect", cfg.Dialect)
	}

	db, err := openDatabase(cfg.DatabaseURL, d.Name())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, enerr.Wrap(enerr.ErrSQLConnection, err, "failed to reach database")
	}

	return &Client{
		db:      db,
		dialect: d,
		config:  cfg,
		exec:    migrate.NewExecutor(db, d, cfg.Collector),
	}, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB exposes the underlying connection for advanced callers.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Dialect returns the name of the active dialect.
func (c *Client) Dialect() string {
	return c.dialect.Name()
}

// Alteration describes one change to an enum's value set.
type Alteration struct {
	Enum   string
	Add    []string
	Remove []string

	// OnRemove, when non-nil, overrides every bound column's declared
	// removal policy for this alteration.
	OnRemove *policy.RemovalPolicy
}

// CreateEnum declares a new enum and records it in the state file.
func (c *Client) CreateEnum(ctx context.Context, name string, values ...string) error {
	return c.run(ctx, &migrate.CreateEnum{Name: name, Values: values})
}

// DropEnum removes an enum that no column references.
func (c *Client) DropEnum(ctx context.Context, name string) error {
	return c.run(ctx, &migrate.RemoveEnum{Name: name})
}

// RenameEnum changes an enum's name, retyping its bound columns.
func (c *Client) RenameEnum(ctx context.Context, oldName, newName string) error {
	return c.run(ctx, &migrate.RenameEnum{Old: oldName, New: newName})
}

// AlterEnum applies one alteration to the database and state file.
func (c *Client) AlterEnum(ctx context.Context, alt Alteration) error {
	return c.run(ctx, &migrate.AlterEnum{
		Name:         alt.Enum,
		AddValues:    alt.Add,
		RemoveValues: alt.Remove,
		OnRemove:     alt.OnRemove,
	})
}

// PlanAlteration returns the SQL an alteration would execute, without
// touching the database.
func (c *Client) PlanAlteration(alt Alteration) ([]string, error) {
	reg, err := state.Load(c.config.StateFile)
	if err != nil {
		return nil, err
	}
	op := &migrate.AlterEnum{
		Name:         alt.Enum,
		AddValues:    alt.Add,
		RemoveValues: alt.Remove,
		OnRemove:     alt.OnRemove,
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	p, err := op.Plan(reg, c.dialect)
	if err != nil {
		return nil, err
	}
	return p.SQL(), nil
}

// Binding records that a column is typed with an enum, along with the
// policy applied to its rows when a value is removed.
type Binding = state.ColumnRef

// RemovalPolicy governs what happens to rows referencing a removed value.
type RemovalPolicy = policy.RemovalPolicy

// Report is the outcome of a drift detection run.
type Report = drift.Report

// BindColumn records that a column is typed with an enum.
func (c *Client) BindColumn(ctx context.Context, col Binding) error {
	reg, err := state.Load(c.config.StateFile)
	if err != nil {
		return err
	}
	if err := reg.AddColumn(col); err != nil {
		return err
	}

	caps := c.dialect.Capabilities()
	if !caps.HasEnum && caps.AlterableConstraints {
		snap, err := reg.EnumSnapshot(col.Enum)
		if err != nil {
			return err
		}
		sql, err := c.dialect.AddCheckSQL(col.Table, col.Column, snap.Values())
		if err != nil {
			return err
		}
		if _, err := c.db.ExecContext(ctx, sql); err != nil {
			return enerr.Wrap(enerr.ErrSQLExecution, err, "failed to install check constraint").
				WithTable(col.Table).
				WithColumn(col.Column).
				WithSQL(sql)
		}
	}

	return reg.Save(c.config.StateFile)
}

// UnbindColumn releases a column's enum binding.
func (c *Client) UnbindColumn(ctx context.Context, table, column string) error {
	reg, err := state.Load(c.config.StateFile)
	if err != nil {
		return err
	}
	reg.RemoveColumn(table, column)

	caps := c.dialect.Capabilities()
	if !caps.HasEnum && caps.AlterableConstraints {
		sql, err := c.dialect.DropCheckSQL(table, column)
		if err != nil {
			return err
		}
		if _, err := c.db.ExecContext(ctx, sql); err != nil {
			return enerr.Wrap(enerr.ErrSQLExecution, err, "failed to drop check constraint").
				WithTable(table).
				WithColumn(column).
				WithSQL(sql)
		}
	}

	return reg.Save(c.config.StateFile)
}

// CheckDrift compares the recorded state against the live database.
func (c *Client) CheckDrift(ctx context.Context) (*Report, error) {
	reg, err := state.Load(c.config.StateFile)
	if err != nil {
		return nil, err
	}
	return drift.NewDetector(c.db, c.dialect).Detect(ctx, reg)
}

// run executes one operation: state projection first, then the database
// phase, then persistence. The state file is written only on success.
func (c *Client) run(ctx context.Context, op migrate.Operation) error {
	if err := op.Validate(); err != nil {
		return err
	}

	from, err := state.Load(c.config.StateFile)
	if err != nil {
		return err
	}
	to := from.Clone()
	if err := op.StateForwards(to); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()
	if err := op.DatabaseForwards(ctx, c.exec, from, to); err != nil {
		return err
	}

	return to.Save(c.config.StateFile)
}

// detectDialect guesses the dialect from a database URL. Bare paths are
// treated as SQLite files.
func detectDialect(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

func openDatabase(url, dialectName string) (*sql.DB, error) {
	driver := "sqlite"
	if dialectName == "postgres" {
		driver = "postgres"
	}
	if driver == "sqlite" {
		url = strings.TrimPrefix(url, "sqlite://")
	}

	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLConnection, err, "failed to open database")
	}
	return db, nil
}

// Re-exported helpers so embedders need not import internal packages.

// Protect returns the protect removal policy.
func Protect() policy.RemovalPolicy { return policy.Protect() }

// Cascade returns the cascade removal policy.
func Cascade() policy.RemovalPolicy { return policy.Cascade() }

// SetNull returns the set_null removal policy.
func SetNull() policy.RemovalPolicy { return policy.SetNull() }

// SetDefault returns a set_default removal policy with the given value.
func SetDefault(value string) policy.RemovalPolicy { return policy.SetDefault(value) }

// SetValue returns a set_value removal policy with the given value.
func SetValue(value string) policy.RemovalPolicy { return policy.SetValue(value) }

// TempTypeName and TransitionTypeName expose scratch naming for cleanup
// tooling.
func TempTypeName(enum, salt string) string { return plan.TempTypeName(enum, salt) }

// TransitionTypeName returns the widened scratch type name for a salt.
func TransitionTypeName(enum, salt string) string { return plan.TransitionTypeName(enum, salt) }
