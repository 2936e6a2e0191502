package bundle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/domain/generation"
)

func TestInstallExecutable_PreservesMode(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "runtime")

	require.NoError(t, installExecutable(strings.NewReader("binary"), target, 0o755))

	info, err := os.Stat(target)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	body, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "binary", string(body))
}

func TestCheckExecutable(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "runtime")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	require.NoError(t, os.Chmod(target, 0o644))

	err := checkExecutable(target, 0o755)
	require.ErrorIs(t, err, generation.ErrPermissionPreservation)

	require.NoError(t, checkExecutable(target, 0o644))

	require.NoError(t, os.Chmod(target, 0o755))
	require.NoError(t, checkExecutable(target, 0o755))
}
