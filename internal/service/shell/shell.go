package shell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/logger"
)

// ErrUnsupportedOS indicates the current OS has no known file manager command.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Runner runs a shell helper and waits for its exit status.
// Helpers such as open and xdg-open return once the OS has taken the bundle.
type Runner func(ctx context.Context, name string, args ...string) error

// Shell performs OS shell actions on bundles.
type Shell struct {
	goos  string
	start Runner
}

// Option configures a Shell.
type Option func(*Shell)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(s *Shell) {
		s.start = r
	}
}

// WithOS overrides the detected operating system.
func WithOS(goos string) Option {
	return func(s *Shell) {
		s.goos = goos
	}
}

// New creates a Shell for the current operating system.
func New(opts ...Option) *Shell {
	s := &Shell{
		goos:  runtime.GOOS,
		start: runCommand,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Reveal shows the bundle at path in the platform file manager:
// - macOS:   `open -R <path>` (selects the bundle in Finder)
// - Linux:   `xdg-open <parent>`
// - Windows: `explorer.exe /select,<path>`
func (s *Shell) Reveal(ctx context.Context, path string) error {
	path, err := existing(path, "reveal")
	if err != nil {
		return err
	}

	name, args, err := s.revealCommand(path)
	if err != nil {
		return generation.Wrap(generation.KindLaunchFailed, "reveal", err)
	}

	return s.run(ctx, "reveal", path, name, args...)
}

// Launch opens the bundle at path as an application:
// - macOS:   `open <path>`
// - Linux:   `xdg-open <path>`
// - Windows: `cmd /C start "" <path>`
func (s *Shell) Launch(ctx context.Context, path string) error {
	path, err := existing(path, "launch")
	if err != nil {
		return err
	}

	name, args, err := s.launchCommand(path)
	if err != nil {
		return generation.Wrap(generation.KindLaunchFailed, "launch", err)
	}

	return s.run(ctx, "launch", path, name, args...)
}

func (s *Shell) revealCommand(path string) (string, []string, error) {
	switch s.family() {
	case "darwin":
		return "open", []string{"-R", path}, nil
	case "linux":
		return "xdg-open", []string{filepath.Dir(path)}, nil
	case "windows":
		return "explorer.exe", []string{"/select," + path}, nil
	default:
		return "", nil, fmt.Errorf("%s: %w", s.goos, ErrUnsupportedOS)
	}
}

func (s *Shell) launchCommand(path string) (string, []string, error) {
	switch s.family() {
	case "darwin":
		return "open", []string{path}, nil
	case "linux":
		return "xdg-open", []string{path}, nil
	case "windows":
		return "cmd", []string{"/C", "start", "", path}, nil
	default:
		return "", nil, fmt.Errorf("%s: %w", s.goos, ErrUnsupportedOS)
	}
}

// family folds the BSDs into the xdg-open branch.
func (s *Shell) family() string {
	osName := strings.ToLower(s.goos)

	switch {
	case strings.Contains(osName, "darwin"):
		return "darwin"
	case strings.Contains(osName, "windows"):
		return "windows"
	case strings.Contains(osName, "linux"), strings.HasSuffix(osName, "bsd"):
		return "linux"
	default:
		return osName
	}
}

func (s *Shell) run(ctx context.Context, op, path, name string, args ...string) error {
	ctx = logger.WithName(ctx, "shell")

	err := s.start(ctx, name, args...)
	if err != nil && s.tolerates(name, err) {
		err = nil
	}

	if err != nil {
		return generation.Wrapf(generation.KindLaunchFailed, op, err, "%s", path)
	}

	logger.DebugKV(ctx, "Handed bundle to the OS", "op", op, "path", path, "command", name)

	return nil
}

// existing resolves path and checks it still exists.
func existing(path, op string) (string, error) {
	expanded, err := generation.ExpandHome(path)
	if err != nil {
		return "", generation.Wrap(generation.KindPathNotFound, op, err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", generation.Wrap(generation.KindPathNotFound, op, err)
	}

	if _, err = os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", generation.Wrapf(generation.KindPathNotFound, op, err, "%s", abs)
		}

		return "", generation.Wrap(generation.KindIO, op, err)
	}

	return abs, nil
}

// tolerates reports whether a non-zero exit is how name signals success.
// explorer.exe exits with 1 even after it opened the window.
func (s *Shell) tolerates(name string, err error) bool {
	var exitErr *exec.ExitError

	return s.family() == "windows" && name == "explorer.exe" &&
		errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

// runCommand runs the helper and turns a non-zero exit into an error carrying its output.
func runCommand(ctx context.Context, name string, args ...string) error {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return err
	}

	if msg := strings.TrimSpace(string(output)); msg != "" {
		return fmt.Errorf("%s exited with status %d: %s: %w", name, exitErr.ExitCode(), msg, err)
	}

	return fmt.Errorf("%s exited with status %d: %w", name, exitErr.ExitCode(), err)
}
