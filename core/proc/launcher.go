package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

var (
	// ErrEmptyCommand is returned when Launch is given no arguments.
	ErrEmptyCommand = errors.New("empty command")

	// ErrCommandNotFound is returned when the program isn't on the search path.
	ErrCommandNotFound = errors.New("command not found")
)

// ProcAttr holds the attributes children are started with.
type ProcAttr struct {
	// Env is the child environment. Nil inherits the shell's environment.
	Env []string

	// Stdin, Stdout and Stderr default to the shell's own streams.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

func (a ProcAttr) files() []*os.File {
	files := []*os.File{a.Stdin, a.Stdout, a.Stderr}
	defaults := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	for i := range files {
		if files[i] == nil {
			files[i] = defaults[i]
		}
	}
	return files
}

func (a ProcAttr) environ() []string {
	if a.Env == nil {
		return os.Environ()
	}
	return a.Env
}

// Launcher starts external programs in the foreground or background.
type Launcher struct {
	attr     ProcAttr
	notifier Notifier
	log      *zap.Logger
}

// NewLauncher creates a launcher that reports terminations to notifier.
func NewLauncher(notifier Notifier, log *zap.Logger, attr ProcAttr) *Launcher {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{
		attr:     attr,
		notifier: notifier,
		log:      log,
	}
}

// Launch starts args[0] with args as its argument vector.
//
// In the foreground Launch blocks until the child exits or is killed and
// returns how it ended. In the background it returns as soon as the child
// has started; the returned Termination then only carries the pid and a
// goroutine reaps the child later.
func (l *Launcher) Launch(args []string, background bool) (Termination, error) {
	if len(args) == 0 {
		return Termination{}, ErrEmptyCommand
	}

	l.notifier.Install()

	path, err := lookPath(args[0])
	if err != nil {
		return Termination{}, err
	}

	process, err := os.StartProcess(path, args, &os.ProcAttr{
		Env:   l.attr.environ(),
		Files: l.attr.files(),
	})
	if err != nil {
		l.log.Warn("start failed", zap.Strings("args", args), zap.Error(err))
		return Termination{}, err
	}

	pid := process.Pid
	log := l.log.With(zap.Int("pid", pid), zap.Strings("args", args), zap.Bool("background", background))
	log.Debug("started")

	if background {
		go func() {
			defer process.Release()
			if _, err := l.wait(log, pid, args, true); err != nil {
				log.Error("wait failed", zap.Error(err))
			}
		}()
		return Termination{Pid: pid, Args: args, Background: true}, nil
	}

	defer process.Release()
	return l.wait(log, pid, args, false)
}

func (l *Launcher) wait(log *zap.Logger, pid int, args []string, background bool) (Termination, error) {
	ws, err := waitTerminal(pid)
	if err != nil {
		return Termination{Pid: pid, Args: args, Background: background}, fmt.Errorf("wait for pid %d: %w", pid, err)
	}

	term := terminationFromStatus(pid, ws)
	term.Args = args
	term.Background = background

	log.Debug("terminated", zap.Stringer("reason", term.Reason), zap.Int("code", term.Code))
	l.notifier.ChildTerminated(term)
	return term, nil
}

// lookPath resolves name using the inherited PATH.
func lookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	switch {
	case err == nil:
		return path, nil
	case errors.Is(err, exec.ErrDot):
		// PATH holds a relative entry; run it the way other shells do.
		return path, nil
	case errors.Is(err, exec.ErrNotFound):
		return "", ErrCommandNotFound
	default:
		return "", err
	}
}
