package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/josephlewis42/simpleshell/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app holds state shared by the command tree.
type app struct {
	fs       afero.Fs
	cfgPath  string
	exitCode int
}

func (a *app) loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configuration, err := config.Load(a.fs, a.cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Couldn't load config: did you run init?")
	}

	return configuration, err
}

// NewRootCommand builds the command tree. Running the root command starts
// an interactive session; its exit status is stored in exitCode.
func NewRootCommand(fs afero.Fs, exitCode *int) *cobra.Command {
	a := &app{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "simpleshell",
		Short: "A small interactive command interpreter.",
		Long: `simpleshell prompts for a line, runs the built-in or program it names,
and records every terminated child in a log file in the startup directory.
End a command with & to run it in the background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.runShell(cmd)
			*exitCode = a.exitCode
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file or directory (default: user config dir)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newConfigCommand(a),
		newBuiltinsCommand(),
		newLogsCommand(a),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	exitCode := 0
	cobra.CheckErr(NewRootCommand(afero.NewOsFs(), &exitCode).Execute())
	os.Exit(exitCode)
}
