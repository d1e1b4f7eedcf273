package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/enumig/internal/cli"
	"github.com/hlop3z/enumig/internal/migrate"
)

// alterCmd changes an enum's value set.
func alterCmd() *cobra.Command {
	var addValues, removeValues []string
	var onRemoveValue, salt string
	var onRemove policyFlag
	var dryRun, backwards bool

	cmd := &cobra.Command{
		Use:   "alter <enum>",
		Short: "Add or remove enum values",
		Long: `Alter an enum's value set. Additions are metadata-only; removals run a
data migration governed by each bound column's removal policy, optionally
overridden with --on-remove for this alteration.`,
		Example: `  # Add a value
  enumig alter color --add yellow

  # Remove a value, deleting rows that still use it
  enumig alter color --remove blue --on-remove cascade

  # Remove a value, rewriting affected rows
  enumig alter color --remove blue --on-remove set_value --on-remove-value green

  # Preview the SQL without executing
  enumig alter color --remove blue --dry-run

  # Reverse a previously applied addition
  enumig alter color --add yellow --backwards`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := &migrate.AlterEnum{
				Name:         args[0],
				AddValues:    addValues,
				RemoveValues: removeValues,
				Salt:         salt,
			}
			op.OnRemove = onRemove.Policy(onRemoveValue)
			if err := op.Validate(); err != nil {
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

			if dryRun {
				reg, err := loadState(cfg)
				if err != nil {
					return err
				}
				p, err := op.Plan(reg, d)
				if err != nil {
					return err
				}
				for _, note := range p.Notes {
					fmt.Print(cli.FormatWarning(note))
				}
				if p.IsEmpty() {
					fmt.Print(cli.FormatNote("nothing to do"))
					return nil
				}
				for _, line := range p.SQL() {
					fmt.Println(line)
				}
				return nil
			}

			db, err := openDB(cmd.Context(), cfg, d)
			if err != nil {
				return err
			}
			defer db.Close()
			exec := migrate.NewExecutor(db, d, nil)

			from, to, err := statePair(cfg)
			if err != nil {
				return err
			}

			if backwards {
				if err := op.DatabaseBackwards(cmd.Context(), exec, from, to); err != nil {
					return err
				}
				if err := op.StateBackwards(to); err != nil {
					return err
				}
				if err := saveState(cfg, to); err != nil {
					return err
				}
				fmt.Print(cli.FormatSuccess("reversed: " + op.Describe()))
				return nil
			}

			if err := op.StateForwards(to); err != nil {
				return err
			}
			if err := op.DatabaseForwards(cmd.Context(), exec, from, to); err != nil {
				return err
			}
			if err := saveState(cfg, to); err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess(op.Describe()))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&addValues, "add", nil, "Value to add (repeatable)")
	cmd.Flags().StringArrayVar(&removeValues, "remove", nil, "Value to remove (repeatable)")
	cmd.Flags().Var(&onRemove, "on-remove", "Override removal policy: protect, cascade, set_null, set_default, set_value")
	cmd.Flags().StringVar(&onRemoveValue, "on-remove-value", "", "Replacement value for set_default/set_value overrides")
	cmd.Flags().StringVar(&salt, "salt", "", "Scratch type name salt (derived from the alteration when empty)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the planned SQL without executing")
	cmd.Flags().BoolVar(&backwards, "backwards", false, "Reverse a previously applied add-only alteration")

	return cmd
}
