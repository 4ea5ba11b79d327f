package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/josephlewis42/simpleshell/core/proc"
	"github.com/josephlewis42/simpleshell/core/shell"
	"go.uber.org/zap"
)

const (
	EnvHome = "HOME"
	EnvUser = "USER"

	DefaultShellName = "Our-SimpleShell"

	ExitSuccess = 0
	ExitFailure = 1
)

var (
	ErrReaderNotConfigured   = errors.New("line reader not configured")
	ErrLauncherNotConfigured = errors.New("launcher not configured")
)

// Launcher starts external programs.
type Launcher interface {
	Launch(args []string, background bool) (proc.Termination, error)
}

// WorkingDir changes and reports the directory commands run in.
type WorkingDir interface {
	Chdir(dir string) error
	Getwd() (string, error)
}

// OSWorkingDir is the working directory of the shell process.
type OSWorkingDir struct{}

func (OSWorkingDir) Chdir(dir string) error { return os.Chdir(dir) }
func (OSWorkingDir) Getwd() (string, error) { return os.Getwd() }

// State is the mutable part of a session.
type State struct {
	// DisplayedDir is the shortened working directory shown in the prompt.
	// It is empty after changing to the home directory.
	DisplayedDir string

	// Background is set from the line being executed and cleared before the
	// next line is read.
	Background bool
}

// Options configures a Session. Reader and Launcher are required.
type Options struct {
	Username  string
	ShellName string

	Reader     LineReader
	Launcher   Launcher
	WorkingDir WorkingDir
	Stderr     io.Writer
	LookupEnv  func(key string) (string, bool)

	Tokenizer     *shell.Tokenizer
	MaxLineLength int
	ColorPrompt   bool

	Log *zap.Logger
}

// Session runs the prompt, read, dispatch loop.
type Session struct {
	username  string
	shellName string

	reader     LineReader
	launcher   Launcher
	workingDir WorkingDir
	stderr     io.Writer
	lookupEnv  func(string) (string, bool)

	tokenizer     *shell.Tokenizer
	maxLineLength int
	colorPrompt   bool

	log   *zap.Logger
	state State
}

// NewSession creates a session starting in the current working directory.
func NewSession(opts Options) (*Session, error) {
	if opts.Reader == nil {
		return nil, ErrReaderNotConfigured
	}
	if opts.Launcher == nil {
		return nil, ErrLauncherNotConfigured
	}

	s := &Session{
		username:      opts.Username,
		shellName:     opts.ShellName,
		reader:        opts.Reader,
		launcher:      opts.Launcher,
		workingDir:    opts.WorkingDir,
		stderr:        opts.Stderr,
		lookupEnv:     opts.LookupEnv,
		tokenizer:     opts.Tokenizer,
		maxLineLength: opts.MaxLineLength,
		colorPrompt:   opts.ColorPrompt,
		log:           opts.Log,
	}
	if s.shellName == "" {
		s.shellName = DefaultShellName
	}
	if s.workingDir == nil {
		s.workingDir = OSWorkingDir{}
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.lookupEnv == nil {
		s.lookupEnv = os.LookupEnv
	}
	if s.tokenizer == nil {
		s.tokenizer = &shell.Tokenizer{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	wd, err := s.workingDir.Getwd()
	if err != nil {
		return nil, fmt.Errorf("find working directory: %w", err)
	}
	s.state.DisplayedDir = ShortenDir(wd)

	return s, nil
}

// State returns a copy of the session state.
func (s *Session) State() State {
	return s.state
}

// Run reads and executes lines until input ends, exit is called or an
// unrecoverable error occurs, and returns the process exit status.
func (s *Session) Run(ctx context.Context) int {
	for {
		if ctx.Err() != nil {
			return ExitSuccess
		}

		line, err := s.reader.ReadLine(s.Prompt())
		switch {
		case errors.Is(err, io.EOF):
			s.log.Debug("end of input")
			return ExitSuccess
		case errors.Is(err, ErrInterrupted):
			continue
		case err != nil:
			s.log.Error("read failed", zap.Error(err))
			fmt.Fprintf(s.stderr, "%s: %v\n", s.shellName, err)
			return ExitFailure
		}

		outcome, err := s.Execute(line)
		if err != nil {
			s.log.Error("unrecoverable", zap.Error(err))
			fmt.Fprintf(s.stderr, "%s: %v\n", s.shellName, err)
			return ExitFailure
		}
		if outcome == OutcomeExit {
			return ExitSuccess
		}
	}
}

// Execute runs a single line. A non-nil error means the session can't
// continue.
func (s *Session) Execute(line string) (Outcome, error) {
	line, truncated := truncateLine(line, s.maxLineLength)
	if truncated {
		s.log.Warn("line truncated", zap.Int("max_line_length", s.maxLineLength))
	}

	tokens, background, err := s.tokenizer.Tokenize(line)
	switch {
	case errors.Is(err, shell.ErrTooManyTokens):
		return OutcomeExit, err
	case err != nil:
		fmt.Fprintf(s.stderr, "%s: %v\n", s.shellName, err)
		return OutcomeContinue, nil
	}

	s.state.Background = background
	defer func() { s.state.Background = false }()

	if outcome := s.dispatch(tokens); outcome != OutcomeNotBuiltin {
		return outcome, nil
	}

	s.launch(tokens)
	return OutcomeContinue, nil
}

func (s *Session) launch(tokens shell.Tokens) {
	term, err := s.launcher.Launch(tokens, s.state.Background)
	if err != nil {
		s.log.Debug("launch failed", zap.Strings("args", tokens), zap.Error(err))
		fmt.Fprintf(s.stderr, "%s: %v\n", tokens[0], err)
		return
	}

	if term.Background {
		s.log.Debug("running in background", zap.Int("pid", term.Pid))
	}
}

func (s *Session) reportf(format string, a ...interface{}) {
	fmt.Fprintf(s.stderr, format+"\n", a...)
}

// truncateLine cuts line to at most max bytes without splitting a rune.
func truncateLine(line string, max int) (string, bool) {
	if max <= 0 || len(line) <= max {
		return line, false
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut], true
}
