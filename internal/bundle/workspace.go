package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oshokin/webbox/internal/domain/generation"
)

const (
	// WorkspacePrefix starts the name of every staging workspace.
	WorkspacePrefix = "webbox-"
	// workspaceMode keeps workspaces private to the current user.
	workspaceMode os.FileMode = 0o700
)

// Workspace is an exclusive staging directory for one pipeline run.
type Workspace struct {
	// Root is the workspace directory itself.
	Root string
	// BundleDir is where the bundle is assembled: Root/<name>.app.
	BundleDir string
}

// NewWorkspace creates a workspace under stagingRoot, or the system temporary
// directory when stagingRoot is empty.
func NewWorkspace(stagingRoot, bundleName string) (*Workspace, error) {
	if stagingRoot == "" {
		stagingRoot = os.TempDir()
	}

	if err := os.MkdirAll(stagingRoot, 0o755); err != nil {
		return nil, generation.Wrapf(generation.KindIO, "create workspace", err, "staging root %s", stagingRoot)
	}

	root := filepath.Join(stagingRoot, WorkspacePrefix+uuid.NewString())

	// Mkdir, not MkdirAll: an existing directory means a name collision.
	if err := os.Mkdir(root, workspaceMode); err != nil {
		return nil, generation.Wrap(generation.KindIO, "create workspace", err)
	}

	return &Workspace{
		Root:      root,
		BundleDir: filepath.Join(root, bundleName),
	}, nil
}

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.Root, err)
	}

	return nil
}
