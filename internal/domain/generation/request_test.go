package generation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeIcon creates a small file to satisfy the icon readability checks.
func writeIcon(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, os.WriteFile(path, []byte("not decoded here"), 0o600))

	return path
}

// TestNewRequest_Normalizes checks the concrete "Notion" scenario.
func TestNewRequest_Normalizes(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "Applications")

	req, err := NewRequest(RawRequest{
		DisplayName:     "  Notion ",
		TargetURL:       "notion.so",
		SourceIconPath:  writeIcon(t),
		OutputDirectory: output,
	})
	require.NoError(t, err)
	require.Equal(t, "Notion", req.DisplayName())
	require.Equal(t, "https://notion.so", req.TargetURL())
	require.Equal(t, filepath.Join(output, "Notion.app"), req.BundlePath())

	// Output directory is created on demand.
	info, err := os.Stat(output)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

// TestNewRequest_RejectsFields asserts each rule reports the offending field.
func TestNewRequest_RejectsFields(t *testing.T) {
	t.Parallel()

	icon := writeIcon(t)
	output := t.TempDir()

	cases := map[string]struct {
		raw   RawRequest
		field string
	}{
		"empty name":      {RawRequest{"  ", "a.com", icon, output}, FieldDisplayName},
		"slash in name":   {RawRequest{"a/b", "a.com", icon, output}, FieldDisplayName},
		"dot in name":     {RawRequest{"..", "a.com", icon, output}, FieldDisplayName},
		"ftp url":         {RawRequest{"App", "ftp://a.com", icon, output}, FieldTargetURL},
		"dotless host":    {RawRequest{"App", "http://localhost:8080", icon, output}, FieldTargetURL},
		"empty url":       {RawRequest{"App", "", icon, output}, FieldTargetURL},
		"missing icon":    {RawRequest{"App", "a.com", filepath.Join(output, "nope.png"), output}, FieldSourceIconPath},
		"icon is dir":     {RawRequest{"App", "a.com", output, output}, FieldSourceIconPath},
		"output is file":  {RawRequest{"App", "a.com", icon, icon}, FieldOutputDirectory},
		"no output given": {RawRequest{"App", "a.com", icon, ""}, FieldOutputDirectory},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRequest(tc.raw)
			require.ErrorIs(t, err, ErrInvalidRequest)

			var genErr *Error

			require.ErrorAs(t, err, &genErr)
			require.Equal(t, tc.field, genErr.Field)
		})
	}
}

// TestNormalizeURL covers scheme defaulting and host lower-casing.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"notion.so":                   "https://notion.so",
		"HTTP://Example.COM/Path?q=1": "http://example.com/Path?q=1",
		"https://app.example.io:8443": "https://app.example.io:8443",
		" mail.google.com/mail/ ":     "https://mail.google.com/mail/",
	}

	for in, want := range cases {
		got, err := NormalizeURL(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	// Inputs that only parse as http(s) after the scheme default, or carry credentials.
	for _, in := range []string{
		"mailto:a@b.co",
		"user:secret@example.com",
		"https://user@example.com/",
		"ftp://files.example.com",
	} {
		_, err := NormalizeURL(in)
		require.ErrorIs(t, err, ErrInvalidRequest, in)
	}
}

// TestExpandHome resolves the tilde prefix only.
func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/Applications")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "Applications"), got)

	got, err = ExpandHome("/abs/~/x")
	require.NoError(t, err)
	require.Equal(t, "/abs/~/x", got)
}
