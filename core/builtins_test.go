package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTable(t *testing.T) {
	var names []string
	for _, b := range ListBuiltins() {
		names = append(names, b.Name)
		assert.NotNil(t, b.ShellBuiltin, b.Name)
		assert.NotEmpty(t, b.Usage, b.Name)
	}
	assert.Equal(t, []string{"cd", "exit"}, names)

	cd, ok := LookupBuiltin("cd")
	require.True(t, ok)
	assert.Equal(t, ChangeDirectory, cd.Kind)

	exit, ok := LookupBuiltin("exit")
	require.True(t, ok)
	assert.Equal(t, ExitShell, exit.Kind)

	_, ok = LookupBuiltin("ls")
	assert.False(t, ok)
}

func TestDispatch(t *testing.T) {
	testChdir(t, t.TempDir())
	s := newTestSession(t, nil, nil)

	cases := map[string]struct {
		args []string
		want Outcome
	}{
		"empty":    {args: nil, want: OutcomeContinue},
		"cd":       {args: []string{"cd", "."}, want: OutcomeContinue},
		"exit":     {args: []string{"exit"}, want: OutcomeExit},
		"external": {args: []string{"ls", "-l"}, want: OutcomeNotBuiltin},
		"cd-arg":   {args: []string{"echo", "cd"}, want: OutcomeNotBuiltin},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, s.dispatch(tc.args))
		})
	}
	assert.Empty(t, s.launcher.calls)
}

func TestCd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "child"), 0755))
	testChdir(t, root)

	s := newTestSession(t, nil, nil)
	assert.Equal(t, ShortenDir(getwd(t)), s.State().DisplayedDir)

	_, err := s.Execute("cd child")
	require.NoError(t, err)
	assert.Equal(t, "/child", s.State().DisplayedDir)
	assert.Equal(t, "child", filepath.Base(getwd(t)))

	_, err = s.Execute("cd ..")
	require.NoError(t, err)
	assert.Equal(t, ShortenDir(getwd(t)), s.State().DisplayedDir)
	assert.Empty(t, s.transcript.String())
}

func TestCdFailureLeavesStateUnchanged(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	testChdir(t, root)

	cases := map[string]struct {
		line    string
		wantErr string
	}{
		"missing":       {line: "cd /does/not/exist", wantErr: "cd: chdir /does/not/exist: no such file or directory\n"},
		"not-directory": {line: "cd " + file, wantErr: "cd: chdir " + file + ": not a directory\n"},
		"too-many":      {line: "cd a b", wantErr: "cd: too many arguments\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s := newTestSession(t, nil, nil)
			before := s.State()
			wdBefore := getwd(t)

			outcome, err := s.Execute(tc.line)
			require.NoError(t, err)
			assert.Equal(t, OutcomeContinue, outcome)

			assert.Equal(t, tc.wantErr, s.transcript.String())
			assert.Equal(t, before, s.State())
			assert.Equal(t, wdBefore, getwd(t))
		})
	}
}

func TestCdHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	testChdir(t, "/")

	s := newTestSession(t, nil, nil)

	_, err := s.Execute("cd")
	require.NoError(t, err)

	assert.Equal(t, "", s.State().DisplayedDir)
	assert.Equal(t, "tester@Our-SimpleShell:~$ ", s.Prompt())

	wantHome, err := filepath.EvalSymlinks(home)
	require.NoError(t, err)
	gotHome, err := filepath.EvalSymlinks(getwd(t))
	require.NoError(t, err)
	assert.Equal(t, wantHome, gotHome)
}

func TestCdHomeNotSet(t *testing.T) {
	testChdir(t, "/")

	s := newTestSession(t, nil, func(opts *Options) {
		opts.LookupEnv = func(string) (string, bool) { return "", false }
	})

	_, err := s.Execute("cd")
	require.NoError(t, err)

	assert.Equal(t, "cd: HOME not set\n", s.transcript.String())
	assert.Equal(t, "/", s.State().DisplayedDir)
	assert.Equal(t, "/", getwd(t))
}

func TestCdRoundTrip(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	require.NoError(t, os.Mkdir(target, 0755))

	start := filepath.Join(root, "start")
	require.NoError(t, os.Mkdir(start, 0755))
	testChdir(t, start)

	s := newTestSession(t, nil, nil)
	before := s.State().DisplayedDir

	_, err := s.Execute("cd " + target)
	require.NoError(t, err)
	assert.Equal(t, "/target", s.State().DisplayedDir)

	_, err = s.Execute("cd " + start)
	require.NoError(t, err)
	assert.Equal(t, before, s.State().DisplayedDir)
}

func TestBuiltinIgnoresBackground(t *testing.T) {
	testChdir(t, "/")
	s := newTestSession(t, nil, nil)

	_, err := s.Execute("cd /tmp &")
	require.NoError(t, err)

	assert.Equal(t, "/tmp", s.State().DisplayedDir)
	assert.False(t, s.State().Background)
	assert.Empty(t, s.launcher.calls)
}
