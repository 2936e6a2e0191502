package inspect_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/icon"
	"github.com/oshokin/webbox/internal/service/generator"
	"github.com/oshokin/webbox/internal/service/inspect"
	"github.com/oshokin/webbox/internal/template/templatetest"
	"github.com/oshokin/webbox/internal/version"
)

func generateBundle(t *testing.T) string {
	t.Helper()

	iconPath := filepath.Join(t.TempDir(), "icon.png")

	out, err := os.Create(iconPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, image.NewNRGBA(image.Rect(0, 0, 512, 512))))
	require.NoError(t, out.Close())

	svc := generator.New(templatetest.Open(t),
		generator.WithStagingDirectory(t.TempDir()),
		generator.WithProcessProbe(func(string) bool { return false }),
	)

	result, err := svc.Generate(context.Background(), generation.RawRequest{
		DisplayName:     "Linear",
		TargetURL:       "linear.app",
		SourceIconPath:  iconPath,
		OutputDirectory: t.TempDir(),
	})
	require.NoError(t, err)

	return result.BundlePath
}

func TestBundle(t *testing.T) {
	t.Parallel()

	path := generateBundle(t)

	report, err := inspect.Bundle(path)
	require.NoError(t, err)
	require.Equal(t, "Linear", report.Config.Name)
	require.Equal(t, "https://linear.app", report.Config.URL)
	require.Equal(t, "io.webbox.app.linear", report.Identifier)
	require.Equal(t, version.Short(), report.GeneratorVersion)
	require.Equal(t, "-rwxr-xr-x", report.ExecutableMode)
	require.True(t, report.HasBridge)
	require.Len(t, report.Icons, len(icon.Renditions))

	var out bytes.Buffer
	require.NoError(t, report.Print(&out))
	require.Contains(t, out.String(), "https://linear.app")
	require.Contains(t, out.String(), "Icon ic10:")
}

func TestBundle_Missing(t *testing.T) {
	t.Parallel()

	_, err := inspect.Bundle(filepath.Join(t.TempDir(), "Gone.app"))
	require.ErrorIs(t, err, generation.ErrPathNotFound)
}

func TestBundle_BrokenConfig(t *testing.T) {
	t.Parallel()

	path := generateBundle(t)
	require.NoError(t, os.WriteFile(filepath.Join(path, "Contents", "Resources", "config.json"), []byte("{"), 0o644))

	_, err := inspect.Bundle(path)
	require.Error(t, err)
}
