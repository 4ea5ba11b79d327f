package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/simpleshell/core"
	"github.com/josephlewis42/simpleshell/core/config"
	"github.com/josephlewis42/simpleshell/core/logger"
	"github.com/josephlewis42/simpleshell/core/proc"
	"github.com/josephlewis42/simpleshell/core/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const fallbackUsername = "user"

func (a *app) runShell(cmd *cobra.Command) error {
	cmd.SilenceUsage = true

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	appLog, err := logger.NewZapLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	appLog = logger.WithSession(appLog)
	defer appLog.Sync()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	journal, err := logger.NewJournal(a.fs, filepath.Join(wd, cfg.LogFileName), recordFormatter(cfg.Journal.RecordFormat), appLog)
	if err != nil {
		return err
	}
	defer journal.Close()
	appLog.Debug("journal ready", zap.String("path", journal.Path()))

	// Interrupts belong to the foreground child; the shell keeps running.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			appLog.Debug("interrupt")
		}
	}()

	if cfg.ShowBanner {
		printBanner(cmd.OutOrStdout())
	}

	reader, err := core.NewReadlineReader(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer reader.Close()

	session, err := core.NewSession(core.Options{
		Username:  resolveUsername(),
		ShellName: cfg.ShellName,
		Reader:    reader,
		Launcher:  proc.NewLauncher(journal, appLog, proc.ProcAttr{}),
		Stderr:    cmd.ErrOrStderr(),
		Tokenizer: &shell.Tokenizer{
			MaxTokens:  cfg.Limits.MaxTokens,
			QuoteAware: cfg.Tokenizer.QuoteAware,
		},
		MaxLineLength: cfg.Limits.MaxLineLength,
		ColorPrompt:   cfg.ColorPrompt,
		Log:           appLog,
	})
	if err != nil {
		return err
	}

	a.exitCode = session.Run(cmd.Context())
	appLog.Debug("session ended", zap.Int("exit_code", a.exitCode))
	return nil
}

func recordFormatter(format string) logger.RecordFormatter {
	if format == config.RecordFormatDetailed {
		return logger.DetailedRecord
	}
	return logger.PlainRecord
}

// resolveUsername prefers $USER, then the OS account name.
func resolveUsername() string {
	if name := os.Getenv(core.EnvUser); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return fallbackUsername
}

func printBanner(w io.Writer) {
	stars := strings.Repeat("*", 75)
	fmt.Fprintln(w, stars)
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "***************\t\t  Welcome to Our Shell \t\t******************")
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, stars)
	fmt.Fprintln(w)
}
