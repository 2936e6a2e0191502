package template_test

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/template"
	"github.com/oshokin/webbox/internal/template/templatetest"
)

func TestScaffold_OpensCleanly(t *testing.T) {
	t.Parallel()

	store := templatetest.Open(t)

	require.Equal(t, "Contents/MacOS/webbox-runtime", store.ExecutablePath())

	info, err := store.Stat(store.ExecutablePath())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	rc, err := store.Open(store.ExecutablePath())
	require.NoError(t, err)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, templatetest.RuntimeContents, string(body))

	bridge, err := store.ReadFile(template.NotificationBridgePath)
	require.NoError(t, err)
	require.Contains(t, string(bridge), "show_notification")
	require.Contains(t, string(bridge), "'granted'")

	manifest := store.Manifest()
	require.Equal(t, "webbox-runtime", manifest["CFBundleExecutable"])
	require.Equal(t, "APPL", manifest["CFBundlePackageType"])
}

func TestStore_ManifestIsACopy(t *testing.T) {
	t.Parallel()

	store := templatetest.Open(t)

	m := store.Manifest()
	m["CFBundleName"] = "Changed"

	require.Equal(t, "Template", store.Manifest()["CFBundleName"])
}

func TestStore_Walk(t *testing.T) {
	t.Parallel()

	store := templatetest.Open(t)

	var (
		dirs  []string
		files []string
	)

	err := store.Walk(func(name string, info fs.FileInfo) error {
		if info.IsDir() {
			dirs = append(dirs, name)
		} else {
			files = append(files, name)
		}

		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Contents", "Contents/MacOS", "Contents/Resources"}, dirs)
	require.ElementsMatch(t, []string{
		"Contents/Info.plist",
		"Contents/MacOS/webbox-runtime",
		"Contents/Resources/notification-bridge.js",
	}, files)
}

func TestOpen_MissingResources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(t *testing.T, dir string)
	}{
		{
			name: "no directory",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.RemoveAll(dir))
			},
		},
		{
			name: "no Info.plist",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, "Contents", "Info.plist")))
			},
		},
		{
			name: "no runtime",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, "Contents", "MacOS", "webbox-runtime")))
			},
		},
		{
			name: "runtime not executable",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.Chmod(filepath.Join(dir, "Contents", "MacOS", "webbox-runtime"), 0o644))
			},
		},
		{
			name: "no notification bridge",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, "Contents", "Resources", "notification-bridge.js")))
			},
		},
		{
			name: "garbage Info.plist",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "Contents", "Info.plist"), []byte("<<<"), 0o644))
			},
		},
		{
			name: "Info.plist without executable",
			mutate: func(t *testing.T, dir string) {
				plist := `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><dict><key>CFBundleName</key><string>X</string></dict></plist>`
				require.NoError(t, os.WriteFile(filepath.Join(dir, "Contents", "Info.plist"), []byte(plist), 0o644))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := templatetest.New(t)
			tt.mutate(t, dir)

			_, err := template.Open(dir)
			require.ErrorIs(t, err, generation.ErrTemplateMissing)
		})
	}
}

func TestStore_OpenMissingResource(t *testing.T) {
	t.Parallel()

	store := templatetest.Open(t)

	_, err := store.Open("Contents/Resources/nope.txt")
	require.ErrorIs(t, err, generation.ErrTemplateMissing)
}

func TestLocate(t *testing.T) {
	t.Parallel()

	t.Run("configured path", func(t *testing.T) {
		t.Parallel()

		dir := templatetest.New(t)

		got, err := template.Locate(dir)
		require.NoError(t, err)
		require.Equal(t, dir, got)
	})

	t.Run("configured path missing", func(t *testing.T) {
		t.Parallel()

		_, err := template.Locate(filepath.Join(t.TempDir(), "absent"))
		require.ErrorIs(t, err, generation.ErrTemplateMissing)
	})
}
