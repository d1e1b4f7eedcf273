package main

import (
	"context"
	"strings"

	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/migrate"
	"github.com/hlop3z/enumig/internal/state"
)

// runOperation validates an operation, applies it to the database, then
// persists the updated state. The registry is written only after the
// database phase succeeds, so a failed run leaves the recorded state at
// the pre-operation snapshot.
func runOperation(ctx context.Context, op migrate.Operation) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := op.Validate(); err != nil {
		return err
	}

	d, err := resolveDialect(cfg)
	if err != nil {
		return err
	}
	db, err := openDB(ctx, cfg, d)
	if err != nil {
		return err
	}
	defer db.Close()

	from, err := loadState(cfg)
	if err != nil {
		return err
	}
	to := from.Clone()
	if err := op.StateForwards(to); err != nil {
		return err
	}

	exec := migrate.NewExecutor(db, d, nil)
	if err := op.DatabaseForwards(ctx, exec, from, to); err != nil {
		return err
	}

	return saveState(cfg, to)
}

// parseColumnRef splits a "table.column" argument.
func parseColumnRef(arg string) (table, column string, err error) {
	table, column, ok := strings.Cut(arg, ".")
	if !ok || table == "" || column == "" {
		return "", "", enerr.New(enerr.ErrAlterInvalid, "column reference must be table.column").
			With("got", arg)
	}
	return table, column, nil
}

// statePair loads the current registry and a working copy.
func statePair(cfg *Config) (from, to *state.Registry, err error) {
	from, err = loadState(cfg)
	if err != nil {
		return nil, nil, err
	}
	return from, from.Clone(), nil
}
