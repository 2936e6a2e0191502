package template

import (
	"os"
	"path/filepath"

	"github.com/oshokin/webbox/internal/domain/generation"
)

// Locate returns the template directory to use.
// A configured path wins; otherwise the installation layouts next to the running
// executable are tried in order: packaged app resources, a sibling directory, and
// a development "resources" folder.
func Locate(configured string) (string, error) {
	if configured != "" {
		dir, err := generation.ExpandHome(configured)
		if err != nil {
			return "", generation.Wrap(generation.KindTemplateMissing, "locate template", err)
		}

		if isDir(dir) {
			return dir, nil
		}

		return "", generation.Wrapf(generation.KindTemplateMissing, "locate template", errNotFound, "%s", dir)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", generation.Wrap(generation.KindTemplateMissing, "locate template", err)
	}

	return locateFrom(filepath.Dir(exe))
}

func locateFrom(exeDir string) (string, error) {
	candidates := []string{
		filepath.Join(exeDir, "..", "Resources", DirectoryName),
		filepath.Join(exeDir, DirectoryName),
		filepath.Join(exeDir, "resources", DirectoryName),
	}

	for _, candidate := range candidates {
		if isDir(candidate) {
			return filepath.Clean(candidate), nil
		}
	}

	return "", generation.Wrapf(generation.KindTemplateMissing, "locate template", errNotFound,
		"checked %v", candidates)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
