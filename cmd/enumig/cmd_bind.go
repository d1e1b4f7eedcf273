package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/enumig/internal/cli"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/policy"
	"github.com/hlop3z/enumig/internal/state"
)

// bindCmd binds a column to an enum, installing a check constraint on
// dialects that emulate enums that way.
func bindCmd() *cobra.Command {
	var onRemoveValue, defaultValue string
	var onRemove policyFlag

	cmd := &cobra.Command{
		Use:   "bind <table>.<column> <enum>",
		Short: "Bind a column to an enum",
		Long: `Record that a column is typed with an enum and declare what happens to
its rows when an enum value is removed. On dialects that emulate enums
with CHECK constraints, the constraint is installed as part of binding.`,
		Example: `  # Protect is the default removal policy
  enumig bind shirts.color color

  # Rows referencing a removed value get deleted
  enumig bind shirts.color color --on-remove cascade

  # Rows fall back to the column default
  enumig bind orders.status status --on-remove set_default --default pending`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, column, err := parseColumnRef(args[0])
			if err != nil {
				return err
			}

			col := state.ColumnRef{
				Table:    table,
				Column:   column,
				Enum:     args[1],
				Default:  defaultValue,
				OnRemove: policy.Protect(),
			}
			if p := onRemove.Policy(onRemoveValue); p != nil {
				col.OnRemove = *p
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := resolveDialect(cfg)
			if err != nil {
				return err
			}

			to, err := loadState(cfg)
			if err != nil {
				return err
			}
			if err := to.AddColumn(col); err != nil {
				return err
			}

			// Emulated-enum dialects enforce the value set per column.
			caps := d.Capabilities()
			if !caps.HasEnum && caps.AlterableConstraints {
				snap, err := to.EnumSnapshot(col.Enum)
				if err != nil {
					return err
				}
				sql, err := d.AddCheckSQL(table, column, snap.Values())
				if err != nil {
					return err
				}
				db, err := openDB(cmd.Context(), cfg, d)
				if err != nil {
					return err
				}
				defer db.Close()
				if _, err := db.ExecContext(cmd.Context(), sql); err != nil {
					return enerr.Wrap(enerr.ErrSQLExecution, err, "failed to install check constraint").
						WithTable(table).
						WithColumn(column).
						WithSQL(sql)
				}
			}

			if err := saveState(cfg, to); err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess(fmt.Sprintf("bound %s.%s to enum %s (%s)",
				table, column, col.Enum, col.OnRemove)))
			return nil
		},
	}

	cmd.Flags().Var(&onRemove, "on-remove", "Removal policy: protect, cascade, set_null, set_default, set_value")
	cmd.Flags().StringVar(&onRemoveValue, "on-remove-value", "", "Replacement value for set_default/set_value")
	cmd.Flags().StringVar(&defaultValue, "default", "", "Column default, used by set_default policies without a value")

	return cmd
}

// unbindCmd releases a column binding and drops its check constraint on
// emulated-enum dialects.
func unbindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unbind <table>.<column>",
		Short: "Release a column's enum binding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, column, err := parseColumnRef(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := resolveDialect(cfg)
			if err != nil {
				return err
			}

			reg, err := loadState(cfg)
			if err != nil {
				return err
			}
			reg.RemoveColumn(table, column)

			caps := d.Capabilities()
			if !caps.HasEnum && caps.AlterableConstraints {
				sql, err := d.DropCheckSQL(table, column)
				if err != nil {
					return err
				}
				db, err := openDB(cmd.Context(), cfg, d)
				if err != nil {
					return err
				}
				defer db.Close()
				if _, err := db.ExecContext(cmd.Context(), sql); err != nil {
					return enerr.Wrap(enerr.ErrSQLExecution, err, "failed to drop check constraint").
						WithTable(table).
						WithColumn(column).
						WithSQL(sql)
				}
			}

			if err := saveState(cfg, reg); err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess(fmt.Sprintf("unbound %s.%s", table, column)))
			return nil
		},
	}
}
