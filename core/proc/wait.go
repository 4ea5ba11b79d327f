package proc

import (
	"errors"

	"golang.org/x/sys/unix"
)

// waitTerminal blocks until pid has exited or been killed by a signal.
// Stop notifications are consumed and waiting resumes.
func waitTerminal(pid int) (unix.WaitStatus, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, unix.WUNTRACED, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return ws, err
		case ws.Exited() || ws.Signaled():
			return ws, nil
		}
	}
}
