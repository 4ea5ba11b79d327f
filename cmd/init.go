package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephlewis42/simpleshell/core/config"
	"github.com/spf13/cobra"
)

// newInitCommand writes the default configuration.
func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write the default configuration to DIR (default: user config dir).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var dir string
			if len(args) == 1 {
				dir = args[0]
			} else {
				userDir, err := os.UserConfigDir()
				if err != nil {
					return err
				}
				dir = filepath.Join(userDir, config.AppDirName)
			}

			path, err := config.Initialize(a.fs, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
