package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/simpleshell/core"
	"github.com/spf13/cobra"
)

func newBuiltinsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "Show the commands handled inside the shell.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 8, 2, ' ', 0)
			for _, b := range core.ListBuiltins() {
				fmt.Fprintf(tw, "%s\t%s\n", b.Usage, b.Short)
			}
			return tw.Flush()
		},
	}
}
