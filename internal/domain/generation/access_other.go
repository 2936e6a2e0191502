//go:build !unix

package generation

import (
	"errors"
	"os"
)

var errReadOnlyDirectory = errors.New("directory is read-only")

// checkWritable falls back to the permission bits where access(2) is unavailable.
func checkWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o200 == 0 {
		return errReadOnlyDirectory
	}

	return nil
}
