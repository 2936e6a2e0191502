package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/webbox/internal/config"
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/logger"
	"github.com/oshokin/webbox/internal/progress"
	"github.com/oshokin/webbox/internal/service/common"
	"github.com/oshokin/webbox/internal/service/generator"
	"github.com/oshokin/webbox/internal/service/shell"
)

// Options configures one generate invocation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// Name, URL and IconPath describe the website to wrap.
	Name     string
	URL      string
	IconPath string

	// OutputDirectory overrides the output directory from settings.
	OutputDirectory string

	// TemplateDirectory overrides the template location from settings.
	TemplateDirectory string

	// RemoteAddress runs the generation on a daemon instead of in-process.
	RemoteAddress string

	// Reveal shows the bundle in the file manager afterwards.
	Reveal bool

	// Launch starts the bundle afterwards.
	Launch bool

	// Output receives progress lines and the result; os.Stdout when nil.
	Output io.Writer
}

// Run generates one bundle and reports progress to opts.Output.
func Run(ctx context.Context, opts *Options) (*generator.Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "generate")

	// Load settings; a missing file means defaults.
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.TemplateDirectory != "" {
		cfg.TemplateDirectory = opts.TemplateDirectory
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	// Use output directory from options if provided, otherwise use config.
	outputDirectory := cfg.OutputDirectory
	if opts.OutputDirectory != "" {
		outputDirectory = opts.OutputDirectory
	}

	raw := generation.RawRequest{
		DisplayName:     opts.Name,
		TargetURL:       opts.URL,
		SourceIconPath:  opts.IconPath,
		OutputDirectory: outputDirectory,
	}

	// Icon and output paths are resolved here so a daemon sees the caller's files.
	if raw.SourceIconPath, err = absolute(raw.SourceIconPath); err != nil {
		return nil, err
	}

	if raw.OutputDirectory, err = absolute(raw.OutputDirectory); err != nil {
		return nil, err
	}

	printer := newProgressPrinter(out)

	actions, closeActions, err := openActions(ctx, cfg, opts.RemoteAddress)
	if err != nil {
		return nil, err
	}
	defer closeActions()

	result, err := actions.generate(ctx, raw, printer.print)
	if err != nil {
		return nil, err
	}

	_, _ = fmt.Fprintf(out, "Created %s (%s)\n", result.BundlePath, result.Identifier)

	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(out, "Warning: %s\n", warning)
	}

	if opts.Reveal {
		if err = actions.reveal(ctx, result.BundlePath); err != nil {
			return result, err
		}
	}

	if opts.Launch {
		if err = actions.launch(ctx, result.BundlePath); err != nil {
			return result, err
		}
	}

	return result, nil
}

// PathOptions configures a reveal or launch invocation.
type PathOptions struct {
	// ConfigPath to YAML settings file.
	ConfigPath string
	// RemoteAddress performs the action on a daemon instead of in-process.
	RemoteAddress string
	// Path is the bundle to act on.
	Path string
}

// Reveal shows a bundle in the file manager.
func Reveal(ctx context.Context, opts *PathOptions) error {
	return runPathAction(ctx, opts, func(a *bundleActions) func(context.Context, string) error { return a.reveal })
}

// Launch starts a bundle.
func Launch(ctx context.Context, opts *PathOptions) error {
	return runPathAction(ctx, opts, func(a *bundleActions) func(context.Context, string) error { return a.launch })
}

func runPathAction(
	ctx context.Context,
	opts *PathOptions,
	pick func(*bundleActions) func(context.Context, string) error,
) error {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	path, err := absolute(opts.Path)
	if err != nil {
		return err
	}

	actions, closeActions, err := openPathActions(ctx, cfg, opts.RemoteAddress)
	if err != nil {
		return err
	}
	defer closeActions()

	return pick(actions)(ctx, path)
}

// bundleActions binds the commands to an in-process or a remote backend.
type bundleActions struct {
	generate func(ctx context.Context, raw generation.RawRequest, onProgress func(progress.Event)) (*generator.Result, error)
	reveal   func(ctx context.Context, path string) error
	launch   func(ctx context.Context, path string) error
}

func openActions(ctx context.Context, cfg *config.Config, remote string) (*bundleActions, func(), error) {
	if remote != "" {
		return dialActions(ctx, cfg, remote)
	}

	svc, err := generator.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	sh := shell.New()

	return &bundleActions{
		generate: func(ctx context.Context, raw generation.RawRequest, onProgress func(progress.Event)) (*generator.Result, error) {
			inv := svc.Start(ctx, raw)
			for ev := range inv.Events() {
				onProgress(ev)
			}

			return inv.Wait()
		},
		reveal: sh.Reveal,
		launch: sh.Launch,
	}, func() {}, nil
}

// openPathActions is openActions without the pipeline, which needs a template.
func openPathActions(ctx context.Context, cfg *config.Config, remote string) (*bundleActions, func(), error) {
	if remote != "" {
		return dialActions(ctx, cfg, remote)
	}

	sh := shell.New()

	return &bundleActions{
		reveal: sh.Reveal,
		launch: sh.Launch,
	}, func() {}, nil
}

func dialActions(ctx context.Context, cfg *config.Config, remote string) (*bundleActions, func(), error) {
	// Identify current user and hostname for the daemon's log.
	actor, err := common.DetectActor()
	if err != nil {
		return nil, nil, err
	}

	// Connect to the daemon with timeout from config.
	client, err := common.Dial(ctx, remote, common.WithCallTimeout(cfg.Timeout), common.WithActor(actor))
	if err != nil {
		return nil, nil, err
	}

	logger.InfoKV(ctx, "Using generation daemon", "server_address", remote)

	actions := &bundleActions{
		generate: client.Generate,
		reveal:   client.Reveal,
		launch:   client.Launch,
	}

	return actions, func() { _ = client.Close() }, nil
}

func absolute(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	expanded, err := generation.ExpandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	return abs, nil
}
