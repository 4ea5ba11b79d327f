package logger

import (
	"strings"
	"sync"
	"testing"

	"github.com/josephlewis42/simpleshell/core/proc"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testJournalPath = "/work/Log_file.txt"

func newTestJournal(t *testing.T, format RecordFormatter) (*Journal, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0755))

	journal, err := NewJournal(fs, testJournalPath, format, zap.NewNop())
	require.NoError(t, err)
	return journal, fs
}

func readJournalFile(t *testing.T, fs afero.Fs) string {
	t.Helper()

	contents, err := afero.ReadFile(fs, testJournalPath)
	require.NoError(t, err)
	return string(contents)
}

func TestNewJournalTruncates(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testJournalPath, []byte("old session\n"), 0644))

	journal, err := NewJournal(fs, testJournalPath, nil, nil)
	require.NoError(t, err)
	require.NoError(t, journal.Close())

	assert.Equal(t, "", readJournalFile(t, fs))
}

func TestJournalPlain(t *testing.T) {
	journal, fs := newTestJournal(t, PlainRecord)
	journal.Install()
	journal.Install()

	journal.ChildTerminated(proc.Termination{Pid: 1, Reason: proc.Exited})
	journal.ChildTerminated(proc.Termination{Pid: 2, Reason: proc.Signaled, Code: 9})
	require.NoError(t, journal.Close())

	assert.Equal(t, "Child process was terminated\nChild process was terminated\n", readJournalFile(t, fs))
	assert.EqualValues(t, 2, journal.Written())
}

func TestJournalDetailed(t *testing.T) {
	journal, fs := newTestJournal(t, DetailedRecord)

	journal.ChildTerminated(proc.Termination{Pid: 42, Reason: proc.Exited, Code: 1})
	require.NoError(t, journal.Close())

	assert.Equal(t, "Child process was terminated (pid 42, exited 1)\n", readJournalFile(t, fs))
}

func TestJournalConcurrentNotifications(t *testing.T) {
	journal, fs := newTestJournal(t, PlainRecord)
	journal.Install()

	const children = 100
	var wg sync.WaitGroup
	for i := 0; i < children; i++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			journal.ChildTerminated(proc.Termination{Pid: pid})
		}(i)
	}
	wg.Wait()
	require.NoError(t, journal.Close())

	lines := strings.Split(strings.TrimSuffix(readJournalFile(t, fs), "\n"), "\n")
	assert.Len(t, lines, children)
	for _, line := range lines {
		assert.Equal(t, TerminationRecord, line)
	}
}

func TestJournalAfterClose(t *testing.T) {
	journal, fs := newTestJournal(t, PlainRecord)
	require.NoError(t, journal.Close())
	require.NoError(t, journal.Close())

	journal.ChildTerminated(proc.Termination{Pid: 7})

	assert.Equal(t, "", readJournalFile(t, fs))
	assert.EqualValues(t, 0, journal.Written())
}

func TestJournalLogsTerminations(t *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)

	fs := afero.NewMemMapFs()
	journal, err := NewJournal(fs, testJournalPath, PlainRecord, zap.New(observerCore))
	require.NoError(t, err)

	journal.ChildTerminated(proc.Termination{Pid: 5, Args: []string{"sleep", "1"}, Background: true})
	require.NoError(t, journal.Close())

	entries := observedLogs.FilterMessage("child terminated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 5, fields["pid"])
	assert.Equal(t, "sleep 1", fields["command"])
	assert.Equal(t, true, fields["background"])
}

func TestReadJournal(t *testing.T) {
	input := "Child process was terminated\n\n  Child process was terminated (pid 3, exited 0)\n"

	var records []string
	require.NoError(t, ReadJournal(strings.NewReader(input), func(record string) {
		records = append(records, record)
	}))

	assert.Equal(t, []string{
		"Child process was terminated",
		"Child process was terminated (pid 3, exited 0)",
	}, records)
}
