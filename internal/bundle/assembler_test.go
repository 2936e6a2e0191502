package bundle_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/bundle"
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/template"
	"github.com/oshokin/webbox/internal/template/templatetest"
	"github.com/oshokin/webbox/internal/version"
)

var testManifest = &generation.Manifest{
	DisplayName: "Notion",
	Identifier:  "io.webbox.app.notion",
	TargetURL:   "https://notion.so",
	GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
}

func TestAssemble_ProducesCompleteBundle(t *testing.T) {
	t.Parallel()

	templateDir := templatetest.New(t)

	// Extra skeleton content must be carried over with its mode.
	helper := filepath.Join(templateDir, "Contents", "Resources", "helper.sh")
	require.NoError(t, os.WriteFile(helper, []byte("#!/bin/sh\n"), 0o750))
	require.NoError(t, os.Chmod(helper, 0o750))

	store, err := template.Open(templateDir)
	require.NoError(t, err)

	ws, err := bundle.NewWorkspace(t.TempDir(), "Notion.app")
	require.NoError(t, err)

	var lastDone, lastTotal int

	err = bundle.NewAssembler(store).Assemble(context.Background(), ws.BundleDir, testManifest, []byte("icns-bytes"),
		func(done, total int) {
			lastDone, lastTotal = done, total
		})
	require.NoError(t, err)
	require.Equal(t, lastTotal, lastDone)

	exe := filepath.Join(ws.BundleDir, "Contents", "MacOS", "webbox-runtime")
	info, err := os.Stat(exe)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	body, err := os.ReadFile(exe)
	require.NoError(t, err)
	require.Equal(t, templatetest.RuntimeContents, string(body))

	_, err = os.Stat(filepath.Join(ws.BundleDir, "Contents", "MacOS", ".webbox-runtime.old"))
	require.ErrorIs(t, err, os.ErrNotExist)

	info, err = os.Stat(filepath.Join(ws.BundleDir, "Contents", "Resources", "helper.sh"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	icns, err := os.ReadFile(filepath.Join(ws.BundleDir, filepath.FromSlash(bundle.IconPath)))
	require.NoError(t, err)
	require.Equal(t, "icns-bytes", string(icns))

	wantBridge, err := store.ReadFile(template.NotificationBridgePath)
	require.NoError(t, err)

	gotBridge, err := os.ReadFile(filepath.Join(ws.BundleDir, filepath.FromSlash(template.NotificationBridgePath)))
	require.NoError(t, err)
	require.Equal(t, wantBridge, gotBridge)

	values, err := bundle.ReadInfoPlist(ws.BundleDir)
	require.NoError(t, err)
	require.Equal(t, "Notion", values["CFBundleName"])
	require.Equal(t, "Notion", values["CFBundleDisplayName"])
	require.Equal(t, "io.webbox.app.notion", values["CFBundleIdentifier"])
	require.Equal(t, "icon", values["CFBundleIconFile"])
	require.Equal(t, "webbox-runtime", values["CFBundleExecutable"])
	require.Equal(t, version.Short(), values[bundle.GeneratorVersionKey])
}

func TestAssemble_DestinationExists(t *testing.T) {
	t.Parallel()

	store := templatetest.Open(t)
	dest := t.TempDir()

	err := bundle.NewAssembler(store).Assemble(context.Background(), dest, testManifest, nil, nil)
	require.ErrorIs(t, err, generation.ErrIO)
}

func TestAssemble_Canceled(t *testing.T) {
	t.Parallel()

	store := templatetest.Open(t)
	ws, err := bundle.NewWorkspace(t.TempDir(), "Notion.app")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = bundle.NewAssembler(store).Assemble(ctx, ws.BundleDir, testManifest, nil, nil)
	require.ErrorIs(t, err, generation.ErrCanceled)
}

func TestAssemble_TemplateRemovedUnderneath(t *testing.T) {
	t.Parallel()

	templateDir := templatetest.New(t)
	store, err := template.Open(templateDir)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(templateDir, "Contents", "MacOS", "webbox-runtime")))

	ws, err := bundle.NewWorkspace(t.TempDir(), "Notion.app")
	require.NoError(t, err)

	err = bundle.NewAssembler(store).Assemble(context.Background(), ws.BundleDir, testManifest, nil, nil)
	require.ErrorIs(t, err, generation.ErrTemplateMissing)
}

func TestWorkspace(t *testing.T) {
	t.Parallel()

	stagingRoot := t.TempDir()

	first, err := bundle.NewWorkspace(stagingRoot, "A.app")
	require.NoError(t, err)

	second, err := bundle.NewWorkspace(stagingRoot, "A.app")
	require.NoError(t, err)
	require.NotEqual(t, first.Root, second.Root)

	info, err := os.Stat(first.Root)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	require.Equal(t, filepath.Join(first.Root, "A.app"), first.BundleDir)
	require.Contains(t, filepath.Base(first.Root), bundle.WorkspacePrefix)

	require.NoError(t, os.MkdirAll(first.BundleDir, 0o755))
	require.NoError(t, first.Remove())
	require.NoError(t, second.Remove())

	entries, err := os.ReadDir(stagingRoot)
	require.NoError(t, err)
	require.Empty(t, entries)
}
