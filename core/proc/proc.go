// Package proc starts external programs for the shell and reports when they
// reach a terminal state.
package proc

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// Reason describes how a child reached its terminal state.
type Reason int

const (
	Exited Reason = iota
	Signaled
)

func (r Reason) String() string {
	switch r {
	case Exited:
		return "exited"
	case Signaled:
		return "signaled"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Termination describes a child that has exited or been killed.
type Termination struct {
	Pid        int
	Args       []string
	Background bool
	Reason     Reason
	// Code is the exit status for Exited and the signal number for Signaled.
	Code int
}

// Success reports whether the child exited with status 0.
func (t Termination) Success() bool {
	return t.Reason == Exited && t.Code == 0
}

func (t Termination) String() string {
	switch t.Reason {
	case Signaled:
		return fmt.Sprintf("pid %d, killed by signal %s", t.Pid, unix.Signal(t.Code))
	default:
		return fmt.Sprintf("pid %d, exited %d", t.Pid, t.Code)
	}
}

// Command returns the command line the child was started with.
func (t Termination) Command() string {
	return strings.Join(t.Args, " ")
}

func terminationFromStatus(pid int, ws unix.WaitStatus) Termination {
	if ws.Signaled() {
		return Termination{Pid: pid, Reason: Signaled, Code: int(ws.Signal())}
	}
	return Termination{Pid: pid, Reason: Exited, Code: ws.ExitStatus()}
}

// Notifier is told about every child that reaches a terminal state.
//
// ChildTerminated may be called from any goroutine, including while the
// session is blocked reading input, so implementations must only record the
// event and return.
type Notifier interface {
	// Install prepares the notifier to receive events. It is called before
	// every launch and must be idempotent.
	Install()
	ChildTerminated(t Termination)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Install()                    {}
func (NopNotifier) ChildTerminated(Termination) {}

var _ Notifier = NopNotifier{}
