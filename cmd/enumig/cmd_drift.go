package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/enumig/internal/cli"
	"github.com/hlop3z/enumig/internal/drift"
	"github.com/hlop3z/enumig/internal/enerr"
)

// driftCmd compares the recorded enum state against the live database.
func driftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drift",
		Short: "Detect divergence between recorded state and the database",
		Long: `Introspect the database and compare each enum's live value set against
the recorded state. Exits non-zero when drift is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := resolveDialect(cfg)
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg, d)
			if err != nil {
				return err
			}
			defer db.Close()

			reg, err := loadState(cfg)
			if err != nil {
				return err
			}

			report, err := drift.NewDetector(db, d).Detect(cmd.Context(), reg)
			if err != nil {
				return err
			}

			if cli.Default().IsJSON() {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				if report.HasDrift {
					return enerr.New(enerr.ErrDriftDetected, "enum state drift detected")
				}
				return nil
			}

			if !report.HasDrift {
				fmt.Print(cli.FormatSuccess("no drift; recorded state matches the database"))
				return nil
			}

			tbl := cli.NewTable("ENUM", "RECORDED", "LIVE")
			for _, m := range report.Mismatches {
				live := strings.Join(m.Live, ", ")
				if m.Live == nil {
					live = "(missing)"
				}
				tbl.AddRow(m.Enum, strings.Join(m.Recorded, ", "), live)
			}
			fmt.Print(tbl.String())

			return enerr.New(enerr.ErrDriftDetected, "enum state drift detected").
				With("enums", len(report.Mismatches))
		},
	}
}
