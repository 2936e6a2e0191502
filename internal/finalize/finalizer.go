package finalize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/logger"
)

const (
	priorMarker    = ".webbox-prior-"
	incomingMarker = ".webbox-incoming-"
)

// Finalizer promotes staged bundles. One Finalizer must be shared by every run
// writing into the same output directories; its locks are per instance.
type Finalizer struct {
	fs    FS
	locks *keyedMutex
	newID func() string
}

// Option configures a Finalizer.
type Option func(*Finalizer)

// WithFS replaces the filesystem, typically with a fault-injecting wrapper.
func WithFS(fsys FS) Option {
	return func(f *Finalizer) {
		f.fs = fsys
	}
}

// New creates a Finalizer on the real filesystem.
func New(opts ...Option) *Finalizer {
	f := &Finalizer{
		fs:    OSFS{},
		locks: newKeyedMutex(),
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Install moves the bundle at staged to outputDir/name and returns the final path.
// A bundle already at the final path is replaced; if anything fails it is put
// back. Once started, Install runs to completion regardless of ctx.
func (f *Finalizer) Install(ctx context.Context, staged, outputDir, name string) (string, error) {
	ctx = logger.WithName(context.WithoutCancel(ctx), "finalizer")

	final := filepath.Join(outputDir, name)

	unlock := f.locks.Lock(lockKey(final))
	defer unlock()

	aside, err := f.moveAside(outputDir, name, final)
	if err != nil {
		return "", generation.Wrap(generation.KindIO, "finalize", err)
	}

	if err = f.promote(staged, outputDir, name, final); err != nil {
		if aside != "" {
			if restoreErr := f.fs.Rename(aside, final); restoreErr != nil {
				logger.ErrorKV(ctx, "Unable to restore previous bundle",
					"path", final, "backup", aside, "error", restoreErr)

				err = errors.Join(err, fmt.Errorf("restore previous bundle from %s: %w", aside, restoreErr))
			}
		}

		return "", generation.Wrap(generation.KindIO, "finalize", err)
	}

	if aside != "" {
		if err = f.fs.RemoveAll(aside); err != nil {
			logger.WarnKV(ctx, "Unable to remove previous bundle", "path", aside, "error", err)
		}
	}

	logger.InfoKV(ctx, "Bundle installed", "path", final, "replaced", aside != "")

	return final, nil
}

// moveAside renames an existing final bundle out of the way and returns its new
// path, or "" when there was nothing to move.
func (f *Finalizer) moveAside(outputDir, name, final string) (string, error) {
	if _, err := f.fs.Lstat(final); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}

		return "", err
	}

	aside := filepath.Join(outputDir, "."+name+priorMarker+f.newID())
	if err := f.fs.Rename(final, aside); err != nil {
		return "", fmt.Errorf("move previous bundle aside: %w", err)
	}

	return aside, nil
}

// promote puts staged at final, copying when the two are on different volumes.
func (f *Finalizer) promote(staged, outputDir, name, final string) error {
	err := f.fs.Rename(staged, final)
	if err == nil {
		return nil
	}

	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("move bundle into place: %w", err)
	}

	// Copy next to the destination so the last step is still a same-volume rename.
	incoming := filepath.Join(outputDir, "."+name+incomingMarker+f.newID())

	if err = f.fs.CopyTree(staged, incoming); err != nil {
		_ = f.fs.RemoveAll(incoming)

		return fmt.Errorf("copy bundle across volumes: %w", err)
	}

	if err = f.fs.Rename(incoming, final); err != nil {
		_ = f.fs.RemoveAll(incoming)

		return fmt.Errorf("move bundle into place: %w", err)
	}

	return nil
}
