package packager_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/config"
	"github.com/oshokin/webbox/internal/service/packager"
	"github.com/oshokin/webbox/internal/template/templatetest"
)

func writeRuntime(t *testing.T, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "runtime")
	require.NoError(t, os.WriteFile(path, []byte(templatetest.RuntimeContents), mode))
	require.NoError(t, os.Chmod(path, mode))

	return path
}

func TestRun_ScaffoldsAndSavesSettings(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	dir := filepath.Join(t.TempDir(), "Template.app")

	store, err := packager.Run(context.Background(), &packager.Options{
		ConfigPath:  configPath,
		Directory:   dir,
		RuntimePath: writeRuntime(t, 0o755),
	})
	require.NoError(t, err)
	require.Equal(t, "Contents/MacOS/webbox-runtime", store.ExecutablePath())

	settings, err := config.Load(configPath)
	require.NoError(t, err)
	require.Equal(t, dir, settings.TemplateDirectory)
	require.Equal(t, config.DefaultIdentifierPrefix, settings.IdentifierPrefix)
}

func TestRun_SkipSettings(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), config.DefaultConfigFilename)

	_, err := packager.Run(context.Background(), &packager.Options{
		ConfigPath:   configPath,
		Directory:    filepath.Join(t.TempDir(), "Template.app"),
		RuntimePath:  writeRuntime(t, 0o755),
		SkipSettings: true,
	})
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Rejects(t *testing.T) {
	t.Parallel()

	t.Run("no runtime", func(t *testing.T) {
		t.Parallel()

		_, err := packager.Run(context.Background(), &packager.Options{Directory: t.TempDir()})
		require.Error(t, err)
	})

	t.Run("runtime not executable", func(t *testing.T) {
		t.Parallel()

		_, err := packager.Run(context.Background(), &packager.Options{
			Directory:    filepath.Join(t.TempDir(), "Template.app"),
			RuntimePath:  writeRuntime(t, 0o644),
			SkipSettings: true,
		})
		require.Error(t, err)
	})

	t.Run("directory not empty", func(t *testing.T) {
		t.Parallel()

		_, err := packager.Run(context.Background(), &packager.Options{
			Directory:    templatetest.New(t),
			RuntimePath:  writeRuntime(t, 0o755),
			SkipSettings: true,
		})
		require.Error(t, err)
	})
}
