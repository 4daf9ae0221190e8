// Package fsys defines the filesystem boundary used by shelf operations.
//
// Operations only read and mutate the filesystem through [FS], so plans can be
// built and executed against an in-memory fake in tests (see fsystest).
package fsys

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"syscall"
)

var ErrDestinationExists = errors.New("destination already exists")

// FS is the set of filesystem calls shelf needs.
type FS interface {
	// ReadDir returns the entries of the named directory, sorted by name.
	ReadDir(name string) ([]fs.DirEntry, error)
	// Stat returns info for the named file, following symlinks.
	Stat(name string) (fs.FileInfo, error)
	// Rename moves oldpath to newpath. It never replaces an existing
	// newpath, returning [ErrDestinationExists] instead.
	Rename(oldpath, newpath string) error
	// Remove removes a file or an empty directory.
	Remove(name string) error
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(name string) error
}

// OS implements [FS] using the host filesystem.
type OS struct{}

// NewOS creates a new [OS].
func NewOS() *OS {
	return &OS{}
}

func (*OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name) //nolint:wrapcheck // Return the original error.
}

func (*OS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name) //nolint:wrapcheck // Return the original error.
}

func (*OS) Remove(name string) error {
	return os.Remove(name) //nolint:wrapcheck // Return the original error.
}

func (*OS) MkdirAll(name string) error {
	return os.MkdirAll(name, 0o755) //nolint:wrapcheck // Return the original error.
}

// Rename moves oldpath to newpath. When the two paths are on different
// devices, regular files are copied and the source is removed.
func (o *OS) Rename(oldpath, newpath string) error {
	err := checkDestination(newpath)
	if err != nil {
		return err
	}

	err = os.Rename(oldpath, newpath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err //nolint:wrapcheck // Return the original error.
	}

	return o.moveByCopy(oldpath, newpath)
}

func checkDestination(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return &fs.PathError{Op: "rename", Path: path, Err: ErrDestinationExists}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err //nolint:wrapcheck // Return the original error.
	}

	return nil
}

func (*OS) moveByCopy(oldpath, newpath string) error {
	info, err := os.Lstat(oldpath)
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}
	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: syscall.EXDEV}
	}

	src, err := os.Open(oldpath) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}
	defer src.Close() //nolint:errcheck // Read-only.

	//nolint:gosec // G304: Potential file inclusion via variable.
	dst, err := os.OpenFile(newpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	_, err = io.Copy(dst, src)
	cerr := dst.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		rerr := os.Remove(newpath)

		return errors.Join(fmt.Errorf("copy %s: %w", oldpath, err), rerr)
	}

	err = os.Chtimes(newpath, info.ModTime(), info.ModTime())
	if err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}

	return os.Remove(oldpath) //nolint:wrapcheck // Return the original error.
}

// Files returns the names of the regular files directly inside dir, sorted.
// Symlinks are followed; broken links are skipped.
func Files(fsys FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink != 0 {
			info, err := fsys.Stat(filepath.Join(dir, e.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}

			names = append(names, e.Name())

			continue
		}
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	return names, nil
}

// Dirs returns the names of the directories directly inside dir, sorted.
// Symlinks to directories are not included.
func Dirs(fsys FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	return names, nil
}

// Entries returns the number of entries directly inside dir.
func Entries(fsys FS, dir string) (int, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dir: %w", err)
	}

	return len(entries), nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys FS, path string) bool {
	info, err := fsys.Stat(path)

	return err == nil && info.IsDir()
}
