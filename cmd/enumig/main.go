// Package main provides the CLI for the enumig enum migration tool.
// Enumig manages the value sets of database enums: declared types on
// PostgreSQL, check-constraint emulation elsewhere, with policy-driven
// data migration when values are removed.
//
// Usage:
//
//	enumig init                          # Create enumig.yaml and the state file
//	enumig create <enum> <value>...      # Declare a new enum
//	enumig drop <enum>                   # Drop an unused enum
//	enumig rename <old> <new>            # Rename an enum
//	enumig alter <enum> --add/--remove   # Change an enum's value set
//	enumig bind <table>.<column> <enum>  # Bind a column to an enum
//	enumig unbind <table>.<column>       # Release a column binding
//	enumig status                        # Show recorded enums and bindings
//	enumig drift                         # Compare recorded state to the database
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/enumig/internal/cli"

	// Database drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	databaseURL string
	configFile  string
	jsonOutput  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "enumig",
		Short:   "Enum schema migration tool",
		Long:    `Enumig manages database enum value sets across PostgreSQL and SQLite, planning safe alterations and migrating the data affected by removed values.`,
		Version: version,

		// Errors render through cli.FormatError below.
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				cli.SetDefault(cli.NewConfigWithMode(cli.ModeJSON))
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "enumig.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON output")

	rootCmd.AddCommand(
		initCmd(),
		createCmd(),
		dropCmd(),
		renameCmd(),
		alterCmd(),
		bindCmd(),
		unbindCmd(),
		statusCmd(),
		driftCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
