package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings get defaults.
	settings := new(Config)

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultOutputDirectory, settings.OutputDirectory)
	require.Equal(t, DefaultIdentifierPrefix, settings.IdentifierPrefix)
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultLogLevel, settings.LogFileLevel)

	// The file level follows the console level unless set.
	settings = &Config{LogLevel: "debug"}

	require.NoError(t, Validate(settings))
	require.Equal(t, "debug", settings.LogFileLevel)

	settings = &Config{LogLevel: "warn", LogFileLevel: "debug"}

	require.NoError(t, Validate(settings))
	require.Equal(t, "debug", settings.LogFileLevel)

	// Bad prefix.
	settings = &Config{
		IdentifierPrefix: "Not A Prefix",
	}

	require.ErrorIs(t, Validate(settings), errInvalidIdentifierPrefix)

	// Bad socket.
	settings = &Config{
		ServerAddress: "bad:address",
	}

	require.Error(t, Validate(settings))

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		OutputDirectory:   "/tmp/apps",
		TemplateDirectory: "/opt/webbox/Template.app",
		IdentifierPrefix:  "com.example.web",
		ServerAddress:     "127.0.0.1:50051",
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.OutputDirectory, loaded.OutputDirectory)
	require.Equal(t, settings.TemplateDirectory, loaded.TemplateDirectory)
	require.Equal(t, settings.IdentifierPrefix, loaded.IdentifierPrefix)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoadOrDefault_MissingFile returns defaults instead of an error.
func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultServerAddress, cfg.ServerAddress)
}
