package core

import (
	"errors"
	"sort"

	"go.uber.org/zap"
)

var (
	ErrHomeNotSet       = errors.New("HOME not set")
	ErrTooManyArguments = errors.New("too many arguments")
)

// Outcome is the result of dispatching a line.
type Outcome int

const (
	// OutcomeNotBuiltin means the line names an external program.
	OutcomeNotBuiltin Outcome = iota
	// OutcomeContinue means the line was handled and the session goes on.
	OutcomeContinue
	// OutcomeExit means the session should end successfully.
	OutcomeExit
)

// BuiltinKind identifies a built-in command.
type BuiltinKind int

const (
	ChangeDirectory BuiltinKind = iota + 1
	ExitShell
)

type ShellBuiltin interface {
	Main(s *Session, args []string) Outcome
}

type ShellBuiltinFunc func(s *Session, args []string) Outcome

func (f ShellBuiltinFunc) Main(s *Session, args []string) Outcome {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Builtin is a command run inside the shell process.
type Builtin struct {
	ShellBuiltin

	Kind  BuiltinKind
	Name  string
	Usage string
	Short string
}

// allBuiltins is filled once in init and only read afterwards.
var allBuiltins = make(map[string]Builtin)

// LookupBuiltin finds the built-in called name.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := allBuiltins[name]
	return b, ok
}

// ListBuiltins returns all built-ins sorted by name.
func ListBuiltins() []Builtin {
	var out []Builtin
	for _, b := range allBuiltins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Session) dispatch(args []string) Outcome {
	if len(args) == 0 {
		return OutcomeContinue
	}

	builtin, ok := LookupBuiltin(args[0])
	if !ok {
		return OutcomeNotBuiltin
	}
	return builtin.Main(s, args)
}

// Cd is the cd shell builtin.
//
// Without an operand it changes to $HOME and clears the displayed
// directory. Failures leave both the real and displayed directory alone.
func Cd(s *Session, args []string) Outcome {
	var err error
	switch len(args) {
	case 1:
		err = s.changeDirHome()
	case 2:
		err = s.changeDir(args[1])
	default:
		err = ErrTooManyArguments
	}

	if err != nil {
		s.reportf("%s: %v", args[0], err)
	}
	return OutcomeContinue
}

// Exit quits the shell.
func Exit(s *Session, args []string) Outcome {
	s.log.Debug("exit requested")
	return OutcomeExit
}

func (s *Session) changeDirHome() error {
	home, ok := s.lookupEnv(EnvHome)
	if !ok || home == "" {
		return ErrHomeNotSet
	}
	if err := s.workingDir.Chdir(home); err != nil {
		return err
	}

	s.state.DisplayedDir = ""
	return nil
}

func (s *Session) changeDir(dir string) error {
	if err := s.workingDir.Chdir(dir); err != nil {
		return err
	}

	wd, err := s.workingDir.Getwd()
	if err != nil {
		s.log.Warn("working directory unknown after cd", zap.String("dir", dir), zap.Error(err))
		wd = dir
	}
	s.state.DisplayedDir = ShortenDir(wd)
	return nil
}

func init() {
	for _, b := range []Builtin{
		{
			ShellBuiltin: ShellBuiltinFunc(Cd),
			Kind:         ChangeDirectory,
			Name:         "cd",
			Usage:        "cd [DIR]",
			Short:        "Change the working directory, or go home without DIR.",
		},
		{
			ShellBuiltin: ShellBuiltinFunc(Exit),
			Kind:         ExitShell,
			Name:         "exit",
			Usage:        "exit",
			Short:        "Quit the shell.",
		},
	} {
		allBuiltins[b.Name] = b
	}
}
