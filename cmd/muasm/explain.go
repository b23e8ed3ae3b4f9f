package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/muasm/core"
)

func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain WORD...",
		Short: "Show the bit fields of instruction words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				v, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 64)
				if err != nil {
					return errors.Wrapf(err, "%q is not a hexadecimal word", arg)
				}

				fmt.Fprintln(cmd.OutOrStdout(), core.Explain(core.Word(v)))
			}

			return nil
		},
	}
}
