// Package shell splits command lines into argument tokens.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

const (
	// BackgroundMarker requests background execution. Tokens after it are
	// discarded.
	BackgroundMarker = "&"

	// DefaultMaxTokens is the number of words accepted on one line when no
	// limit is configured.
	DefaultMaxTokens = 64
)

var (
	// ErrTooManyTokens is returned when a line holds more words than the
	// tokenizer accepts. Callers treat it as unrecoverable.
	ErrTooManyTokens = errors.New("too many arguments on command line")

	// ErrSyntax is returned for lines that cannot be split, e.g. an unclosed
	// quote in quote-aware mode.
	ErrSyntax = errors.New("syntax error")
)

// Tokens is an ordered argument list; Tokens[0], if present, is the command
// name. An empty list means "no command".
type Tokens []string

// Command returns the command name.
func (t Tokens) Command() (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	return t[0], true
}

// Args returns everything after the command name.
func (t Tokens) Args() []string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// String rejoins the tokens with single spaces.
func (t Tokens) String() string {
	return strings.Join(t, " ")
}

// Tokenizer splits raw input lines.
type Tokenizer struct {
	// MaxTokens bounds the number of words on a line, counted before the
	// background marker is stripped. Zero means DefaultMaxTokens.
	MaxTokens int

	// QuoteAware groups quoted words using POSIX shell quoting rules instead
	// of splitting on every run of whitespace.
	QuoteAware bool
}

// Tokenize splits line into tokens and reports whether the line asked for
// background execution. The result depends only on line.
func (t *Tokenizer) Tokenize(line string) (Tokens, bool, error) {
	words, err := t.split(line)
	if err != nil {
		return nil, false, err
	}

	if limit := t.maxTokens(); len(words) > limit {
		return nil, false, fmt.Errorf("%w: %d > %d", ErrTooManyTokens, len(words), limit)
	}

	for i, word := range words {
		if word == BackgroundMarker {
			return Tokens(words[:i]), true, nil
		}
	}
	return Tokens(words), false, nil
}

func (t *Tokenizer) split(line string) ([]string, error) {
	if !t.QuoteAware {
		return strings.Fields(line), nil
	}

	words, err := shlex.Split(line, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return words, nil
}

func (t *Tokenizer) maxTokens() int {
	if t.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return t.MaxTokens
}
