package core

import (
	"errors"
	"io"

	"github.com/abiosoft/readline"
)

// ErrInterrupted is returned by a LineReader when the user cancels the
// current line.
var ErrInterrupted = errors.New("interrupted")

// LineReader shows a prompt and reads one line of input. It returns io.EOF
// when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ReadlineReader reads lines with line editing when attached to a terminal.
// History is kept in memory only.
type ReadlineReader struct {
	instance *readline.Instance
}

var _ LineReader = (*ReadlineReader)(nil)

// NewReadlineReader creates a reader over the given streams.
func NewReadlineReader(stdin io.Reader, stdout, stderr io.Writer) (*ReadlineReader, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{instance: instance}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	line, err := r.instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	return line, err
}

func (r *ReadlineReader) Close() error {
	return r.instance.Close()
}
