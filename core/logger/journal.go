package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/josephlewis42/simpleshell/core/proc"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// TerminationRecord is the text written for every terminated child.
	TerminationRecord = "Child process was terminated"

	// journalQueueSize bounds the events waiting for the writer.
	journalQueueSize = 64
)

// RecordFormatter renders one termination as a single journal line.
type RecordFormatter func(t proc.Termination) string

// PlainRecord writes TerminationRecord without saying which child ended.
func PlainRecord(proc.Termination) string {
	return TerminationRecord
}

// DetailedRecord adds the pid and how the child ended.
func DetailedRecord(t proc.Termination) string {
	return fmt.Sprintf("%s (%s)", TerminationRecord, t)
}

// Journal appends a record to the log artifact for every terminated child.
//
// ChildTerminated only queues the event; a single writer goroutine started
// by Install owns the file and opens, appends and closes it per record.
type Journal struct {
	fs     afero.Fs
	path   string
	format RecordFormatter
	log    *zap.Logger

	events  chan proc.Termination
	done    chan struct{}
	written atomic.Int64

	installOnce sync.Once
	closeOnce   sync.Once

	mu     sync.RWMutex
	closed bool
}

var _ proc.Notifier = (*Journal)(nil)

// NewJournal creates the journal at path, truncating any previous contents.
func NewJournal(fs afero.Fs, path string, format RecordFormatter, log *zap.Logger) (*Journal, error) {
	if format == nil {
		format = PlainRecord
	}
	if log == nil {
		log = zap.NewNop()
	}

	fd, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	if err := fd.Close(); err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	return &Journal{
		fs:     fs,
		path:   path,
		format: format,
		log:    log.With(zap.String("journal", path)),
		events: make(chan proc.Termination, journalQueueSize),
		done:   make(chan struct{}),
	}, nil
}

// Path returns the location of the log artifact.
func (j *Journal) Path() string {
	return j.path
}

// Written returns the number of records appended so far.
func (j *Journal) Written() int64 {
	return j.written.Load()
}

// Install starts the writer. Calling it again has no effect.
func (j *Journal) Install() {
	j.installOnce.Do(func() {
		go j.run()
	})
}

// ChildTerminated queues a record for t. Events arriving after Close are
// dropped.
func (j *Journal) ChildTerminated(t proc.Termination) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		j.log.Debug("dropping termination after close", zap.Int("pid", t.Pid))
		return
	}
	j.Install()
	j.events <- t
}

// Close writes any queued records and stops the writer.
func (j *Journal) Close() error {
	j.closeOnce.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.events)
		j.mu.Unlock()

		// Drain even if nothing was ever launched.
		j.Install()
		<-j.done
	})
	return nil
}

func (j *Journal) run() {
	defer close(j.done)

	for t := range j.events {
		if err := j.append(j.format(t)); err != nil {
			j.log.Error("append failed", zap.Int("pid", t.Pid), zap.Error(err))
			continue
		}
		j.written.Add(1)
		j.log.Info("child terminated",
			zap.Int("pid", t.Pid),
			zap.String("command", t.Command()),
			zap.Bool("background", t.Background),
			zap.Stringer("reason", t.Reason),
			zap.Int("code", t.Code))
	}
}

func (j *Journal) append(record string) error {
	fd, err := j.fs.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(fd, record); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

// ReadJournal calls handler with every record in r.
func ReadJournal(r io.Reader, handler func(record string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		record := strings.TrimSpace(scanner.Text())
		if record == "" {
			continue
		}
		handler(record)
	}
	return scanner.Err()
}
