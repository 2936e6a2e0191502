package generator

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/oshokin/webbox/internal/bundle"
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/logger"
	"github.com/oshokin/webbox/internal/progress"
	"github.com/oshokin/webbox/internal/runtimeconfig"
)

// run is the body of one invocation. Every stage transition goes through the
// state machine; the workspace is removed however the run ends.
//
//nolint:funlen // The pipeline reads best as one sequence.
func (s *Service) run(
	ctx context.Context,
	id string,
	raw generation.RawRequest,
	emitter *progress.Emitter,
) (result *Result, err error) {
	// Set context with logger name and invocation for tracking.
	ctx = logger.WithKV(logger.WithName(ctx, "generator"), "invocation_id", id)

	var (
		machine   = generation.NewMachine()
		workspace *bundle.Workspace
	)

	defer func() {
		// Workspace teardown happens on both success and failure.
		if workspace != nil {
			if removeErr := workspace.Remove(); removeErr != nil {
				logger.WarnKV(ctx, "Unable to remove workspace", "path", workspace.Root, "error", removeErr)
			}
		}

		if err == nil {
			return
		}

		err = normalize(err)
		stage := machine.Current()

		_ = machine.Fail(err)
		emitter.Fail(generation.Describe(err))
		logger.WarnKV(ctx, "Generation failed", "stage", stage, "kind", generation.KindOf(err), "error", err)
	}()

	// enter moves the machine and the progress stream to the next stage,
	// refusing to start any stage once the caller has given up.
	enter := func(stage generation.Stage) error {
		if ctx.Err() != nil {
			return generation.Wrap(generation.KindCanceled, string(stage), ctx.Err())
		}

		if transitionErr := machine.Advance(stage); transitionErr != nil {
			return fmt.Errorf("advance pipeline: %w", transitionErr)
		}

		emitter.Enter(stage)

		return nil
	}

	// Validate the raw request into an immutable one.
	if err = enter(generation.StageValidating); err != nil {
		return nil, err
	}

	req, err := generation.NewRequest(raw)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Generating bundle", "name", req.DisplayName(), "url", req.TargetURL(),
		"output_dir", req.OutputDirectory())

	// Render the icon container.
	if err = enter(generation.StageConvertingIcon); err != nil {
		return nil, err
	}

	asset, err := s.converter.Convert(ctx, req.SourceIconPath(), func(done, total int) {
		emitter.Advance(generation.StageConvertingIcon, float64(done)/float64(total))
	})
	if err != nil {
		return nil, err
	}

	for _, warning := range asset.Warnings {
		logger.WarnKV(ctx, "Icon quality warning", "warning", warning)
	}

	// Build the bundle inside a fresh workspace.
	if err = enter(generation.StageAssembling); err != nil {
		return nil, err
	}

	workspace, err = bundle.NewWorkspace(s.stagingRoot, req.BundleName())
	if err != nil {
		return nil, err
	}

	manifest := generation.NewManifest(req, s.identifierPrefix, s.now())

	err = s.assembler.Assemble(ctx, workspace.BundleDir, manifest, asset.Data, func(done, total int) {
		emitter.Advance(generation.StageAssembling, float64(done)/float64(total))
	})
	if err != nil {
		return nil, err
	}

	// Write the only per-app runtime input.
	if err = enter(generation.StageInjectingConfig); err != nil {
		return nil, err
	}

	if err = runtimeconfig.Write(workspace.BundleDir, runtimeconfig.FromManifest(manifest)); err != nil {
		return nil, err
	}

	// Point of no return: from here on the run completes even if ctx is canceled.
	if err = enter(generation.StageFinalizing); err != nil {
		return nil, err
	}

	warnings := append([]string(nil), asset.Warnings...)
	if warning := s.runningInstanceWarning(req); warning != "" {
		logger.Warn(ctx, warning)

		warnings = append(warnings, warning)
	}

	finalPath, err := s.finalizer.Install(ctx, workspace.BundleDir, req.OutputDirectory(), req.BundleName())
	if err != nil {
		return nil, err
	}

	if err = machine.Advance(generation.StageDone); err != nil {
		return nil, fmt.Errorf("advance pipeline: %w", err)
	}

	emitter.Done("Created " + finalPath)
	logger.InfoKV(ctx, "Bundle generated", "path", finalPath, "identifier", manifest.Identifier)

	return &Result{
		InvocationID: id,
		BundlePath:   finalPath,
		Identifier:   manifest.Identifier,
		Warnings:     warnings,
	}, nil
}

// runningInstanceWarning warns when a bundle about to be replaced may be running.
// The probe only sees executable names, which every generated app shares, so a
// match is advisory.
func (s *Service) runningInstanceWarning(req *generation.Request) string {
	if s.inUse == nil {
		return ""
	}

	if _, err := os.Stat(req.BundlePath()); err != nil {
		return ""
	}

	if !s.inUse(path.Base(s.templates.ExecutablePath())) {
		return ""
	}

	return fmt.Sprintf("%s may be running; restart it to use the new version", req.DisplayName())
}

// normalize makes sure every failure leaving the pipeline is a *generation.Error.
func normalize(err error) error {
	if generation.KindOf(err) != "" {
		return err
	}

	return generation.Wrap(generation.KindIO, "generate", err)
}
