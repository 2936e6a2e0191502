package template

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"howett.net/plist"

	"github.com/oshokin/webbox/internal/domain/generation"
)

// Well-known paths inside a bundle, slash-separated and relative to its root.
const (
	ContentsDir            = "Contents"
	ExecutableDir          = "Contents/MacOS"
	ResourcesDir           = "Contents/Resources"
	InfoPlistPath          = "Contents/Info.plist"
	NotificationBridgePath = "Contents/Resources/notification-bridge.js"

	// DirectoryName is the conventional name of an installed template.
	DirectoryName = "Template.app"

	// executableKey names the runtime binary inside Info.plist.
	executableKey = "CFBundleExecutable"
)

var (
	errNoExecutableKey = errors.New("Info.plist does not name CFBundleExecutable")
	errNotExecutable   = errors.New("runtime is not executable")
	errNotFound        = errors.New("template not found")
)

// Store is a read-only accessor over one template bundle.
type Store struct {
	// fs is rooted at the template bundle.
	fs billy.Filesystem
	// executable is the runtime path relative to the bundle root.
	executable string
	// manifest is the parsed Info.plist template.
	manifest map[string]any
}

// Open opens the template bundle at dir.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, generation.Wrapf(generation.KindTemplateMissing, "open template", errNotFound, "%s", dir)
	}

	return NewStore(osfs.New(dir))
}

// NewStore wraps a filesystem rooted at a template bundle and checks that every
// required resource is present.
func NewStore(fsys billy.Filesystem) (*Store, error) {
	s := &Store{
		fs: fsys,
	}

	raw, err := s.ReadFile(InfoPlistPath)
	if err != nil {
		return nil, err
	}

	var manifest map[string]any
	if _, err = plist.Unmarshal(raw, &manifest); err != nil {
		return nil, generation.Wrapf(generation.KindTemplateMissing, "open template", err, "parse %s", InfoPlistPath)
	}

	name, _ := manifest[executableKey].(string)
	if name == "" || path.Base(name) != name {
		return nil, generation.Wrap(generation.KindTemplateMissing, "open template", errNoExecutableKey)
	}

	s.manifest = manifest
	s.executable = path.Join(ExecutableDir, name)

	info, err := s.Stat(s.executable)
	if err != nil {
		return nil, err
	}

	if info.Mode().Perm()&0o111 == 0 {
		return nil, generation.Wrapf(generation.KindTemplateMissing, "open template", errNotExecutable, "%s", s.executable)
	}

	if _, err = s.Stat(NotificationBridgePath); err != nil {
		return nil, err
	}

	return s, nil
}

// ExecutablePath returns the runtime path relative to the bundle root.
func (s *Store) ExecutablePath() string {
	return s.executable
}

// Manifest returns a copy of the Info.plist template.
func (s *Store) Manifest() map[string]any {
	out := make(map[string]any, len(s.manifest))
	for k, v := range s.manifest {
		out[k] = v
	}

	return out
}

// Open returns a stream over the named resource.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, missing(name, err)
	}

	return f, nil
}

// Stat describes the named resource, including its permission bits.
func (s *Store) Stat(name string) (fs.FileInfo, error) {
	info, err := s.fs.Stat(name)
	if err != nil {
		return nil, missing(name, err)
	}

	return info, nil
}

// ReadFile reads the named resource fully.
func (s *Store) ReadFile(name string) ([]byte, error) {
	data, err := util.ReadFile(s.fs, name)
	if err != nil {
		return nil, missing(name, err)
	}

	return data, nil
}

// Walk calls fn for every directory and regular file of the template, parents
// first, with slash-separated names relative to the bundle root.
func (s *Store) Walk(fn func(name string, info fs.FileInfo) error) error {
	err := util.Walk(s.fs, ".", func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if name == "." {
			return nil
		}

		return fn(filepath.ToSlash(name), info)
	})
	if err != nil {
		return fmt.Errorf("walk template: %w", err)
	}

	return nil
}

// missing classifies an access failure: absent resources mean a corrupted installation.
func missing(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return generation.Wrapf(generation.KindTemplateMissing, "open template", err, "%s", name)
	}

	return generation.Wrapf(generation.KindIO, "read template", err, "%s", name)
}
