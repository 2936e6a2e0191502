package shell_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/service/shell"
)

type recorder struct {
	name string
	args []string
	err  error
}

func (r *recorder) run(_ context.Context, name string, args ...string) error {
	r.name = name
	r.args = args

	return r.err
}

func newBundle(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Notion.app")
	require.NoError(t, os.MkdirAll(path, 0o755))

	return path
}

func TestReveal_Commands(t *testing.T) {
	t.Parallel()

	path := newBundle(t)

	tests := []struct {
		goos string
		name string
		args []string
	}{
		{goos: "darwin", name: "open", args: []string{"-R", path}},
		{goos: "linux", name: "xdg-open", args: []string{filepath.Dir(path)}},
		{goos: "freebsd", name: "xdg-open", args: []string{filepath.Dir(path)}},
		{goos: "windows", name: "explorer.exe", args: []string{"/select," + path}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			s := shell.New(shell.WithOS(tt.goos), shell.WithRunner(rec.run))

			require.NoError(t, s.Reveal(context.Background(), path))
			require.Equal(t, tt.name, rec.name)
			require.Equal(t, tt.args, rec.args)
		})
	}
}

func TestLaunch_Commands(t *testing.T) {
	t.Parallel()

	path := newBundle(t)

	tests := []struct {
		goos string
		name string
		args []string
	}{
		{goos: "darwin", name: "open", args: []string{path}},
		{goos: "linux", name: "xdg-open", args: []string{path}},
		{goos: "windows", name: "cmd", args: []string{"/C", "start", "", path}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			s := shell.New(shell.WithOS(tt.goos), shell.WithRunner(rec.run))

			require.NoError(t, s.Launch(context.Background(), path))
			require.Equal(t, tt.name, rec.name)
			require.Equal(t, tt.args, rec.args)
		})
	}
}

func TestActions_PathNotFound(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	s := shell.New(shell.WithOS("darwin"), shell.WithRunner(rec.run))
	missing := filepath.Join(t.TempDir(), "Gone.app")

	require.ErrorIs(t, s.Reveal(context.Background(), missing), generation.ErrPathNotFound)
	require.ErrorIs(t, s.Launch(context.Background(), missing), generation.ErrPathNotFound)
	require.Empty(t, rec.name, "nothing may be started for a missing bundle")
}

func TestLaunch_Refused(t *testing.T) {
	t.Parallel()

	refused := errors.New("exec: not found")
	rec := &recorder{err: refused}
	s := shell.New(shell.WithOS("darwin"), shell.WithRunner(rec.run))

	err := s.Launch(context.Background(), newBundle(t))
	require.ErrorIs(t, err, generation.ErrLaunchFailed)
	require.ErrorIs(t, err, refused)
}

// fakeHelper puts an xdg-open script on PATH that prints to stderr and exits with code.
func fakeHelper(t *testing.T, code int) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	dir := t.TempDir()
	script := "#!/bin/sh\necho \"no application knows how to open $1\" >&2\nexit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xdg-open"), []byte(script), 0o755))

	t.Setenv("PATH", dir)
}

func TestLaunch_HelperExitStatus(t *testing.T) {
	fakeHelper(t, 4)

	err := shell.New(shell.WithOS("linux")).Launch(context.Background(), newBundle(t))
	require.ErrorIs(t, err, generation.ErrLaunchFailed)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 4, exitErr.ExitCode())
	require.Contains(t, err.Error(), "no application knows how to open")
}

func TestReveal_HelperSucceeds(t *testing.T) {
	fakeHelper(t, 0)

	require.NoError(t, shell.New(shell.WithOS("linux")).Reveal(context.Background(), newBundle(t)))
}

func TestActions_UnsupportedOS(t *testing.T) {
	t.Parallel()

	s := shell.New(shell.WithOS("plan9"), shell.WithRunner((&recorder{}).run))

	err := s.Launch(context.Background(), newBundle(t))
	require.ErrorIs(t, err, generation.ErrLaunchFailed)
	require.ErrorIs(t, err, shell.ErrUnsupportedOS)
}
