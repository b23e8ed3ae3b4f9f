package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sarchlab/muasm/config"
	"github.com/sarchlab/muasm/isa"
)

func newISACommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "isa",
		Short: "Print the active instruction set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadISA(opts.isaPath)
			if err != nil {
				return err
			}

			if format == "table" {
				fmt.Fprint(cmd.OutOrStdout(), renderISA(t))
				return nil
			}

			f, err := config.ParseFileFormat(format)
			if err != nil {
				return err
			}

			return config.WriteISA(cmd.OutOrStdout(), t, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, yaml or toml")

	return cmd
}

func renderISA(t *isa.Table) string {
	formats := table.NewWriter()
	formats.SetTitle(fmt.Sprintf("Instruction set %s", t.Name()))
	formats.AppendHeader(table.Row{"Mnemonic", "Fields", "Group", "Opcode"})
	for _, f := range t.Formats() {
		formats.AppendRow(table.Row{f.Mnemonic, f.Fields, f.Group, f.Opcode})
	}

	regs := table.NewWriter()
	regs.SetTitle("Registers")
	regs.AppendHeader(table.Row{"Index", "Name"})
	for i, name := range t.Registers().Names() {
		regs.AppendRow(table.Row{i, name})
	}

	return formats.Render() + "\n\n" + regs.Render() + "\n"
}
