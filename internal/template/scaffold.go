package template

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

//go:embed assets/Info.plist assets/notification-bridge.js
var assets embed.FS

const (
	// runtimeName matches CFBundleExecutable in the embedded Info.plist.
	runtimeName = "webbox-runtime"
	// executableMode is applied to the scaffolded runtime.
	executableMode os.FileMode = 0o755
	// resourceMode is applied to every other scaffolded file.
	resourceMode os.FileMode = 0o644
)

type scaffoldFile struct {
	name  string
	asset string
	data  []byte
	mode  os.FileMode
}

// Scaffold creates a template bundle at dir from the embedded Info.plist and
// notification bridge plus the runtime binary at runtimePath.
// The result is opened and checked before returning.
func Scaffold(dir, runtimePath string) (*Store, error) {
	runtimeBinary, err := os.ReadFile(runtimePath)
	if err != nil {
		return nil, fmt.Errorf("read runtime: %w", err)
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create template directory: %w", err)
	}

	fsys := osfs.New(dir)

	files := []scaffoldFile{
		{name: path.Join(ExecutableDir, runtimeName), data: runtimeBinary, mode: executableMode},
	}

	for _, f := range []scaffoldFile{
		{name: InfoPlistPath, asset: "assets/Info.plist"},
		{name: NotificationBridgePath, asset: "assets/notification-bridge.js"},
	} {
		if f.data, err = assets.ReadFile(f.asset); err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", f.asset, err)
		}

		f.mode = resourceMode
		files = append(files, f)
	}

	for _, f := range files {
		if err = fsys.MkdirAll(path.Dir(f.name), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", path.Dir(f.name), err)
		}

		if err = util.WriteFile(fsys, f.name, f.data, f.mode); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}

		// WriteFile only applies the mode on creation; an existing file keeps its bits.
		if err = os.Chmod(filepath.Join(dir, filepath.FromSlash(f.name)), f.mode); err != nil {
			return nil, fmt.Errorf("chmod %s: %w", f.name, err)
		}
	}

	return Open(dir)
}
