package cmd

import (
	"fmt"

	"github.com/naka-gawa/harbor-summary/internal/columns"
	"github.com/spf13/cobra"
)

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Print the available column keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(cmd)
		},
	}
}

func runColumns(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available columns:")
	for _, c := range columns.All() {
		fmt.Fprintf(out, "- %s: %s — %s\n", c.Key, c.Label, c.Description)
	}
	return nil
}
