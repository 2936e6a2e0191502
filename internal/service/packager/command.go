package packager

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/webbox/internal/bundle"
	"github.com/oshokin/webbox/internal/config"
	"github.com/oshokin/webbox/internal/logger"
	"github.com/oshokin/webbox/internal/template"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is where the template location is persisted (defaults to webbox-settings.yaml).
	ConfigPath string
	// Directory is the template bundle to create.
	Directory string
	// RuntimePath is the runtime executable to embed.
	RuntimePath string
	// SkipSettings leaves the settings file untouched.
	SkipSettings bool
}

var (
	// errRuntimeRequired is returned when no runtime executable is given.
	errRuntimeRequired = errors.New("runtime executable must be provided")
	// errRuntimeNotExecutable is returned for a runtime without exec bits.
	errRuntimeNotExecutable = errors.New("runtime is not executable")
	// errDirectoryNotEmpty is returned when the target directory already has content.
	errDirectoryNotEmpty = errors.New("template directory is not empty")
)

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) (*template.Store, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "template-init")

	if opts.RuntimePath == "" {
		return nil, errRuntimeRequired
	}

	dir, err := filepath.Abs(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolve template directory: %w", err)
	}

	if err = checkRuntime(opts.RuntimePath); err != nil {
		return nil, err
	}

	if err = ensureEmpty(dir); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Scaffolding template", "path", dir, "runtime", opts.RuntimePath)

	store, err := template.Scaffold(dir, opts.RuntimePath)
	if err != nil {
		return nil, fmt.Errorf("scaffold template: %w", err)
	}

	checksum, err := runtimeChecksum(store)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Template ready", "path", dir, "runtime_sha512", checksum)

	if !opts.SkipSettings {
		if err = saveTemplateLocation(ctx, opts.ConfigPath, dir); err != nil {
			return nil, err
		}
	}

	printNextSteps(ctx, dir)

	return store, nil
}

// checkRuntime verifies the runtime is a regular executable file.
func checkRuntime(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat runtime: %w", err)
	}

	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%s: %w", path, errRuntimeNotExecutable)
	}

	return nil
}

// ensureEmpty refuses to scaffold over existing content.
func ensureEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("read template directory: %w", err)
	case len(entries) > 0:
		return fmt.Errorf("%s: %w", dir, errDirectoryNotEmpty)
	default:
		return nil
	}
}

// runtimeChecksum returns the base64 SHA-512 of the scaffolded runtime, the same
// digest bundle installs verify against.
func runtimeChecksum(store *template.Store) (string, error) {
	data, err := store.ReadFile(store.ExecutablePath())
	if err != nil {
		return "", err
	}

	hasher := bundle.ChecksumFunction.New()
	if _, err = hasher.Write(data); err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}

	return base64.StdEncoding.EncodeToString(hasher.Sum(nil)), nil
}

// saveTemplateLocation records dir as template_dir, keeping other settings.
func saveTemplateLocation(ctx context.Context, configPath, dir string) error {
	if configPath == "" {
		configPath = config.DefaultConfigFilename
	}

	settings, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	settings.TemplateDirectory = dir

	if err = config.Save(configPath, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	logger.InfoKV(ctx, "Settings updated", "path", configPath, "template_dir", dir)

	return nil
}

// printNextSteps logs human-readable guidance for next actions.
func printNextSteps(ctx context.Context, dir string) {
	var builder strings.Builder

	builder.WriteString("Template created at ")
	builder.WriteString(dir)
	builder.WriteString(".\nAdd any extra resources under Contents/Resources; they are copied into every bundle.")
	builder.WriteString("\nGenerate an app with: webbox generate NAME URL ICON")

	logger.Info(ctx, builder.String())
}
