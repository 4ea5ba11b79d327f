package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephlewis42/simpleshell/core/logger"
	"github.com/spf13/cobra"
)

// newLogsCommand prints the termination records of a session.
func newLogsCommand(a *app) *cobra.Command {
	var count bool

	logsCmd := &cobra.Command{
		Use:     "logs [PATH]",
		Aliases: []string{"log"},
		Short:   "Print the child termination records from a log file.",
		Long: `Print the child termination records written by a session. PATH defaults
to the configured log file in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := a.loadConfig(cmd)
				if err != nil {
					return err
				}
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				path = filepath.Join(wd, cfg.LogFileName)
			}

			fd, err := a.fs.Open(path)
			if err != nil {
				return err
			}
			defer fd.Close()

			records := 0
			err = logger.ReadJournal(fd, func(record string) {
				records++
				if !count {
					fmt.Fprintln(cmd.OutOrStdout(), record)
				}
			})
			if err != nil {
				return err
			}

			if count {
				fmt.Fprintln(cmd.OutOrStdout(), records)
			}
			return nil
		},
	}

	logsCmd.Flags().BoolVar(&count, "count", false, "print the number of records instead of the records")
	return logsCmd
}
