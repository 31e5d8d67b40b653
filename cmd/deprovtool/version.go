package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deprovtool/internal/common/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Deprovisioning Checklist Tool - Version %s\n", version.Get())
		},
	}
}
