package generator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/webbox/internal/bundle"
	"github.com/oshokin/webbox/internal/config"
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/finalize"
	"github.com/oshokin/webbox/internal/icon"
	"github.com/oshokin/webbox/internal/progress"
	"github.com/oshokin/webbox/internal/template"
)

// Service generates bundles from one template. It is safe for concurrent use;
// runs share only the finalizer and its per-path locks.
type Service struct {
	// templates is the template every bundle is built from.
	templates *template.Store
	// assembler materializes bundles from templates.
	assembler *bundle.Assembler
	// converter renders icons.
	converter *icon.Converter
	// finalizer promotes staged bundles into output directories.
	finalizer *finalize.Finalizer
	// stagingRoot holds run workspaces; empty means the system temp directory.
	stagingRoot string
	// identifierPrefix starts every bundle identifier.
	identifierPrefix string
	// inUse reports whether a process runs the named executable.
	inUse func(executable string) bool
	// now is the clock for manifest timestamps.
	now func() time.Time
	// newID generates invocation identifiers.
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithStagingDirectory sets where run workspaces are created.
func WithStagingDirectory(dir string) Option {
	return func(s *Service) {
		s.stagingRoot = dir
	}
}

// WithIdentifierPrefix sets the reverse-DNS prefix of bundle identifiers.
func WithIdentifierPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.identifierPrefix = prefix
		}
	}
}

// WithConverter replaces the icon converter.
func WithConverter(c *icon.Converter) Option {
	return func(s *Service) {
		s.converter = c
	}
}

// WithFinalizer replaces the finalizer. Services writing into the same output
// directories must share one.
func WithFinalizer(f *finalize.Finalizer) Option {
	return func(s *Service) {
		s.finalizer = f
	}
}

// WithProcessProbe replaces the running-instance check.
func WithProcessProbe(probe func(executable string) bool) Option {
	return func(s *Service) {
		s.inUse = probe
	}
}

// WithClock replaces the clock used for manifest timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service over templates.
func New(templates *template.Store, opts ...Option) *Service {
	s := &Service{
		templates:        templates,
		assembler:        bundle.NewAssembler(templates),
		converter:        icon.NewConverter(),
		finalizer:        finalize.New(),
		identifierPrefix: config.DefaultIdentifierPrefix,
		inUse:            isProcessRunning,
		now:              time.Now,
		newID:            uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result describes a finished bundle.
type Result struct {
	// InvocationID identifies the run.
	InvocationID string `json:"invocation_id"`
	// BundlePath is the finalized bundle.
	BundlePath string `json:"bundle_path"`
	// Identifier is the bundle identifier written to Info.plist.
	Identifier string `json:"identifier"`
	// Warnings are non-fatal issues, such as an upscaled icon.
	Warnings []string `json:"warnings,omitempty"`
}

// Invocation is one pipeline run in flight.
type Invocation struct {
	// ID correlates progress events and the result with this run.
	ID string

	stream *progress.Stream
	done   chan struct{}
	result *Result
	err    error
}

// Events returns the progress stream of the run, closed after the terminal event.
// A caller that reads it must drain it.
func (i *Invocation) Events() <-chan progress.Event {
	return i.stream.Events()
}

// Wait blocks until the run ends.
func (i *Invocation) Wait() (*Result, error) {
	<-i.done

	return i.result, i.err
}

// Done is closed when the run ends.
func (i *Invocation) Done() <-chan struct{} {
	return i.done
}

// Start launches a run for raw and returns immediately.
// Canceling ctx aborts the run unless finalization has already begun.
func (s *Service) Start(ctx context.Context, raw generation.RawRequest) *Invocation {
	inv := &Invocation{
		ID:     s.newID(),
		stream: progress.NewStream(),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(inv.done)

		inv.result, inv.err = s.run(ctx, inv.ID, raw, progress.NewEmitter(inv.ID, inv.stream))
	}()

	return inv
}

// Generate runs the pipeline for raw and waits for it to finish.
func (s *Service) Generate(ctx context.Context, raw generation.RawRequest) (*Result, error) {
	return s.Start(ctx, raw).Wait()
}
