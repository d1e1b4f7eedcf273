package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/enumig/internal/cli"
	"github.com/hlop3z/enumig/internal/migrate"
)

// createCmd declares a new enum.
func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <enum> <value>...",
		Short: "Declare a new enum with an initial value set",
		Example: `  # Declare a color enum
  enumig create color red green blue`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := &migrate.CreateEnum{Name: args[0], Values: args[1:]}
			if err := runOperation(cmd.Context(), op); err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess(fmt.Sprintf("created enum %s (%s)",
				args[0], strings.Join(args[1:], ", "))))
			return nil
		},
	}
}

// dropCmd removes an enum that no column references.
func dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <enum>",
		Short: "Drop an enum with no bound columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := &migrate.RemoveEnum{Name: args[0]}
			if err := runOperation(cmd.Context(), op); err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess("dropped enum " + args[0]))
			return nil
		},
	}
}

// renameCmd renames an enum, retyping its bound columns in state.
func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename an enum",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := &migrate.RenameEnum{Old: args[0], New: args[1]}
			if err := runOperation(cmd.Context(), op); err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess(fmt.Sprintf("renamed enum %s to %s", args[0], args[1])))
			return nil
		},
	}
}
