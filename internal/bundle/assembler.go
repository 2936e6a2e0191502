package bundle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"howett.net/plist"

	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/logger"
	"github.com/oshokin/webbox/internal/runtimeconfig"
	"github.com/oshokin/webbox/internal/template"
	"github.com/oshokin/webbox/internal/version"
)

const (
	// IconName is CFBundleIconFile of every generated bundle.
	IconName = "icon"
	// IconPath locates the icon container from the bundle root.
	IconPath = template.ResourcesDir + "/" + IconName + ".icns"
	// GeneratorVersionKey records the generator version in Info.plist.
	GeneratorVersionKey = "WebBoxGeneratorVersion"

	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644

	// fixedSteps counts the runtime install, the icon and Info.plist.
	fixedSteps = 3
)

// ProgressFunc receives assembly progress as completed steps out of total.
type ProgressFunc func(done, total int)

// Assembler builds bundles from one template.
type Assembler struct {
	templates *template.Store
}

// NewAssembler creates an assembler over the given template.
func NewAssembler(templates *template.Store) *Assembler {
	return &Assembler{
		templates: templates,
	}
}

// Assemble materializes the bundle for manifest at dest, which must not exist yet.
// icns is the encoded icon container. The context is checked between files.
func (a *Assembler) Assemble(
	ctx context.Context,
	dest string,
	manifest *generation.Manifest,
	icns []byte,
	onProgress ProgressFunc,
) error {
	ctx = logger.WithName(ctx, "assembler")

	skeleton, err := a.skeleton()
	if err != nil {
		return err
	}

	total := len(skeleton) + fixedSteps
	done := 0

	step := func() error {
		done++
		if onProgress != nil {
			onProgress(done, total)
		}

		if ctx.Err() != nil {
			return generation.Wrap(generation.KindCanceled, "assemble", ctx.Err())
		}

		return nil
	}

	if err = os.Mkdir(dest, dirMode); err != nil {
		return generation.Wrap(generation.KindIO, "assemble", err)
	}

	for _, entry := range skeleton {
		if err = a.copyEntry(dest, entry); err != nil {
			return err
		}

		if err = step(); err != nil {
			return err
		}
	}

	if err = a.installRuntime(dest); err != nil {
		return err
	}

	if err = step(); err != nil {
		return err
	}

	if err = writeFile(dest, IconPath, icns); err != nil {
		return err
	}

	if err = step(); err != nil {
		return err
	}

	if err = a.writeInfoPlist(dest, manifest); err != nil {
		return err
	}

	if err = a.verifyBridge(dest); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Bundle assembled", "path", dest, "files", total)

	return step()
}

type skeletonEntry struct {
	name string
	info fs.FileInfo
}

// skeleton lists the template entries copied as-is, parents first.
func (a *Assembler) skeleton() ([]skeletonEntry, error) {
	excluded := map[string]bool{
		template.InfoPlistPath:       true,
		a.templates.ExecutablePath(): true,
		runtimeconfig.RelativePath:   true,
		IconPath:                     true,
	}

	var entries []skeletonEntry

	err := a.templates.Walk(func(name string, info fs.FileInfo) error {
		if excluded[name] {
			return nil
		}

		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}

		entries = append(entries, skeletonEntry{name: name, info: info})

		return nil
	})
	if err != nil {
		return nil, generation.Wrap(generation.KindTemplateMissing, "assemble", err)
	}

	return entries, nil
}

func (a *Assembler) copyEntry(dest string, entry skeletonEntry) error {
	target := filepath.Join(dest, filepath.FromSlash(entry.name))
	mode := entry.info.Mode().Perm()

	if entry.info.IsDir() {
		if err := os.MkdirAll(target, mode|0o700); err != nil {
			return generation.Wrap(generation.KindIO, "assemble", err)
		}

		return nil
	}

	src, err := a.templates.Open(entry.name)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return generation.Wrap(generation.KindIO, "assemble", err)
	}

	if _, err = io.Copy(out, src); err != nil {
		_ = out.Close()

		return generation.Wrapf(generation.KindIO, "assemble", err, "copy %s", entry.name)
	}

	if err = out.Close(); err != nil {
		return generation.Wrap(generation.KindIO, "assemble", err)
	}

	// OpenFile applies the umask; the copy must carry the template's bits exactly.
	if err = os.Chmod(target, mode); err != nil {
		return generation.Wrap(generation.KindIO, "assemble", err)
	}

	return nil
}

func (a *Assembler) installRuntime(dest string) error {
	name := a.templates.ExecutablePath()

	info, err := a.templates.Stat(name)
	if err != nil {
		return err
	}

	src, err := a.templates.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	target := filepath.Join(dest, filepath.FromSlash(name))
	if err = os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return generation.Wrap(generation.KindIO, "install runtime", err)
	}

	mode := info.Mode().Perm()
	if err = installExecutable(src, target, mode); err != nil {
		return generation.Wrap(generation.KindIO, "install runtime", err)
	}

	return checkExecutable(target, mode)
}

// checkExecutable fails when the installed runtime lost exec bits the source had.
func checkExecutable(target string, want os.FileMode) error {
	installed, err := os.Stat(target)
	if err != nil {
		return generation.Wrap(generation.KindIO, "install runtime", err)
	}

	if lost := want & 0o111 &^ installed.Mode().Perm(); lost != 0 {
		return generation.Wrapf(generation.KindPermissionPreservation, "install runtime", nil,
			"%s has mode %v, expected %v", target, installed.Mode().Perm(), want)
	}

	return nil
}

func (a *Assembler) writeInfoPlist(dest string, manifest *generation.Manifest) error {
	values := a.templates.Manifest()
	values["CFBundleName"] = manifest.DisplayName
	values["CFBundleDisplayName"] = manifest.DisplayName
	values["CFBundleIdentifier"] = manifest.Identifier
	values["CFBundleIconFile"] = IconName
	values[GeneratorVersionKey] = version.Short()

	data, err := plist.MarshalIndent(values, plist.XMLFormat, "\t")
	if err != nil {
		return generation.Wrapf(generation.KindIO, "assemble", err, "encode %s", template.InfoPlistPath)
	}

	return writeFile(dest, template.InfoPlistPath, data)
}

// verifyBridge checks the notification bridge arrived byte-for-byte.
func (a *Assembler) verifyBridge(dest string) error {
	want, err := a.templates.ReadFile(template.NotificationBridgePath)
	if err != nil {
		return err
	}

	got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(template.NotificationBridgePath)))
	if err != nil {
		return generation.Wrap(generation.KindIO, "assemble", err)
	}

	if !bytes.Equal(want, got) {
		return generation.Wrapf(generation.KindIO, "assemble", nil, "%s differs from the template",
			template.NotificationBridgePath)
	}

	return nil
}

func writeFile(dest, name string, data []byte) error {
	target := filepath.Join(dest, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return generation.Wrap(generation.KindIO, "assemble", err)
	}

	if err := os.WriteFile(target, data, fileMode); err != nil {
		return generation.Wrapf(generation.KindIO, "assemble", err, "write %s", path.Base(name))
	}

	return nil
}

// ReadInfoPlist decodes the Info.plist of the bundle at bundleRoot.
func ReadInfoPlist(bundleRoot string) (map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(bundleRoot, filepath.FromSlash(template.InfoPlistPath)))
	if err != nil {
		return nil, fmt.Errorf("read Info.plist: %w", err)
	}

	var values map[string]any
	if _, err = plist.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse Info.plist: %w", err)
	}

	return values, nil
}
