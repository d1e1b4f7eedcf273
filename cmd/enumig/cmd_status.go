package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/enumig/internal/cli"
	"github.com/hlop3z/enumig/internal/state"
)

// statusCmd shows the recorded enums and column bindings.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show recorded enums and column bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg, err := loadState(cfg)
			if err != nil {
				return err
			}

			if cli.Default().IsJSON() {
				return printStatusJSON(reg)
			}

			names := reg.EnumNames()
			if len(names) == 0 {
				fmt.Print(cli.FormatNote("no enums recorded; run enumig create"))
				return nil
			}

			enums := cli.NewTable("ENUM", "VALUES")
			for _, name := range names {
				snap, err := reg.EnumSnapshot(name)
				if err != nil {
					return err
				}
				enums.AddRow(name, strings.Join(snap.Values(), ", "))
			}
			fmt.Print(enums.String())

			cols := reg.Columns()
			if len(cols) == 0 {
				return nil
			}
			fmt.Println()
			bindings := cli.NewTable("COLUMN", "ENUM", "ON REMOVE")
			for _, col := range cols {
				bindings.AddRow(col.Table+"."+col.Column, col.Enum, col.OnRemove.String())
			}
			fmt.Print(bindings.String())
			return nil
		},
	}
}

func printStatusJSON(reg *state.Registry) error {
	type enumEntry struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	}
	type binding struct {
		Table    string `json:"table"`
		Column   string `json:"column"`
		Enum     string `json:"enum"`
		OnRemove string `json:"on_remove"`
	}
	out := struct {
		Enums    []enumEntry `json:"enums"`
		Bindings []binding   `json:"bindings"`
	}{}

	for _, name := range reg.EnumNames() {
		snap, err := reg.EnumSnapshot(name)
		if err != nil {
			return err
		}
		out.Enums = append(out.Enums, enumEntry{Name: name, Values: snap.Values()})
	}
	for _, col := range reg.Columns() {
		out.Bindings = append(out.Bindings, binding{
			Table:    col.Table,
			Column:   col.Column,
			Enum:     col.Enum,
			OnRemove: col.OnRemove.String(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
