package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/enumig/internal/cli"
	"github.com/hlop3z/enumig/internal/state"
)

const configTemplate = `# enumig configuration
# database_url supports ${VAR} environment expansion.
database_url: ${DATABASE_URL}

# dialect: postgres | sqlite (inferred from database_url when omitted)
# dialect: postgres

# checks: true emulates enums with CHECK constraints even on PostgreSQL
# checks: false

state_file: enumig.state.yaml
`

// initCmd creates the config file and an empty state file.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize enumig configuration and state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configFile); err == nil {
				fmt.Print(cli.FormatNote(configFile + " already exists, leaving it untouched"))
			} else {
				if err := os.WriteFile(configFile, []byte(configTemplate), 0644); err != nil {
					return err
				}
				fmt.Print(cli.FormatSuccess("wrote " + configFile))
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.StateFile); err == nil {
				fmt.Print(cli.FormatNote(cfg.StateFile + " already exists, leaving it untouched"))
				return nil
			}
			if err := state.NewRegistry().Save(cfg.StateFile); err != nil {
				return err
			}
			fmt.Print(cli.FormatSuccess("wrote " + cfg.StateFile))
			return nil
		},
	}
}
