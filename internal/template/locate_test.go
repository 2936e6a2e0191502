package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/domain/generation"
)

func TestLocateFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		layout   []string
		expected string
	}{
		{
			name:     "packaged app resources",
			layout:   []string{"Resources/Template.app", "MacOS/Template.app"},
			expected: "Resources/Template.app",
		},
		{
			name:     "sibling directory",
			layout:   []string{"MacOS/Template.app", "MacOS/resources/Template.app"},
			expected: "MacOS/Template.app",
		},
		{
			name:     "development resources",
			layout:   []string{"MacOS/resources/Template.app"},
			expected: "MacOS/resources/Template.app",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(root, "MacOS"), 0o755))

			for _, dir := range tt.layout {
				require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
			}

			got, err := locateFrom(filepath.Join(root, "MacOS"))
			require.NoError(t, err)
			require.Equal(t, filepath.Join(root, tt.expected), got)
		})
	}

	_, err := locateFrom(t.TempDir())
	require.ErrorIs(t, err, generation.ErrTemplateMissing)
}
