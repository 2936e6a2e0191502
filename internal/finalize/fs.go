package finalize

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the filesystem surface the finalizer needs.
type FS interface {
	Lstat(name string) (fs.FileInfo, error)
	Rename(oldpath, newpath string) error
	RemoveAll(path string) error
	// CopyTree copies the directory src to dst, which must not exist,
	// preserving permission bits and symbolic links.
	CopyTree(src, dst string) error
}

// OSFS is the real filesystem.
type OSFS struct{}

// Lstat implements FS.
func (OSFS) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

// Rename implements FS.
func (OSFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// RemoveAll implements FS.
func (OSFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// CopyTree implements FS.
func (OSFS) CopyTree(src, dst string) error {
	type dirMode struct {
		path string
		mode fs.FileMode
	}

	var dirs []dirMode

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			// Owner access is kept until the children are written.
			if err = os.Mkdir(target, info.Mode().Perm()|0o700); err != nil {
				return err
			}

			dirs = append(dirs, dirMode{path: target, mode: info.Mode().Perm()})

			return nil
		case info.Mode()&fs.ModeSymlink != 0:
			link, linkErr := os.Readlink(path)
			if linkErr != nil {
				return linkErr
			}

			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return fmt.Errorf("copy %s: unsupported file type %v", path, info.Mode().Type())
		}
	})
	if err != nil {
		return err
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err = os.Chmod(dirs[i].path, dirs[i].mode); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	if err = out.Close(); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}
