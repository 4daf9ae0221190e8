// Package fsystest provides an in-memory [fsys.FS] for tests.
package fsystest

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"testing/fstest"
	"time"

	"github.com/macropower/shelf/pkg/fsys"
)

// Op names an [fsys.FS] method for failure injection.
type Op string

const (
	OpReadDir Op = "readdir"
	OpStat    Op = "stat"
	OpRename  Op = "rename"
	OpRemove  Op = "remove"
	OpMkdir   Op = "mkdir"
)

type failKey struct {
	op   Op
	path string
}

// FS is an in-memory [fsys.FS] backed by [fstest.MapFS]. Paths are host
// style paths; a leading separator is ignored.
type FS struct {
	files     fstest.MapFS
	fail      map[failKey]error
	mutations []string
	mu        sync.Mutex
}

var _ fsys.FS = (*FS)(nil)

// New creates an empty [FS].
func New() *FS {
	return &FS{
		files: fstest.MapFS{},
		fail:  map[failKey]error{},
	}
}

func key(name string) string {
	k := path.Clean(filepath.ToSlash(name))
	k = strings.TrimPrefix(k, "/")
	if k == "" {
		return "."
	}

	return k
}

// WriteFile adds a regular file, creating parent directories.
func (f *FS) WriteFile(name, data string) *FS {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(name)
	f.mkdirAll(path.Dir(k))
	f.files[k] = &fstest.MapFile{Data: []byte(data), Mode: 0o644, ModTime: time.Unix(0, 0)}

	return f
}

// Mkdir adds a directory and its parents.
func (f *FS) Mkdir(name string) *FS {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mkdirAll(key(name))

	return f
}

// Fail makes every call of op on name return err.
func (f *FS) Fail(op Op, name string, err error) *FS {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fail[failKey{op: op, path: key(name)}] = err

	return f
}

// Exists reports whether name exists.
func (f *FS) Exists(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := f.files.Stat(key(name))

	return err == nil
}

// Paths returns every file and directory, sorted, with a leading "/".
func (f *FS) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.files))
	for k := range f.files {
		out = append(out, "/"+k)
	}

	sort.Strings(out)

	return out
}

// Mutations returns a description of each successful mutation, in order.
func (f *FS) Mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.mutations...)
}

func (f *FS) injected(op Op, name string) error {
	if err, ok := f.fail[failKey{op: op, path: key(name)}]; ok {
		return &fs.PathError{Op: string(op), Path: name, Err: err}
	}

	return nil
}

func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.injected(OpReadDir, name); err != nil {
		return nil, err
	}

	return fs.ReadDir(f.files, key(name)) //nolint:wrapcheck // Return the original error.
}

func (f *FS) Stat(name string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.injected(OpStat, name); err != nil {
		return nil, err
	}

	return f.files.Stat(key(name)) //nolint:wrapcheck // Return the original error.
}

func (f *FS) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.injected(OpRename, oldpath); err != nil {
		return err
	}

	oldKey, newKey := key(oldpath), key(newpath)

	if _, err := f.files.Stat(oldKey); err != nil {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	if _, err := f.files.Stat(newKey); err == nil {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fsys.ErrDestinationExists}
	}

	parent, err := f.files.Stat(path.Dir(newKey))
	if err != nil || !parent.IsDir() {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrNotExist}
	}

	moved := fstest.MapFS{}
	for k, v := range f.files {
		if k == oldKey || strings.HasPrefix(k, oldKey+"/") {
			moved[newKey+strings.TrimPrefix(k, oldKey)] = v
		}
	}

	for k := range moved {
		delete(f.files, oldKey+strings.TrimPrefix(k, newKey))
	}

	for k, v := range moved {
		f.files[k] = v
	}

	f.mutations = append(f.mutations, fmt.Sprintf("rename /%s -> /%s", oldKey, newKey))

	return nil
}

func (f *FS) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.injected(OpRemove, name); err != nil {
		return err
	}

	k := key(name)

	info, err := f.files.Stat(k)
	if err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}

	if info.IsDir() {
		entries, err := fs.ReadDir(f.files, k)
		if err != nil {
			return err //nolint:wrapcheck // Return the original error.
		}
		if len(entries) > 0 {
			return &fs.PathError{Op: "remove", Path: name, Err: syscall.ENOTEMPTY}
		}
	}

	delete(f.files, k)
	f.mutations = append(f.mutations, "remove /"+k)

	return nil
}

func (f *FS) MkdirAll(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.injected(OpMkdir, name); err != nil {
		return err
	}

	k := key(name)

	for p := k; p != "."; p = path.Dir(p) {
		info, err := f.files.Stat(p)
		if err == nil && !info.IsDir() {
			return &fs.PathError{Op: "mkdir", Path: "/" + p, Err: syscall.ENOTDIR}
		}
	}

	if _, err := f.files.Stat(k); err != nil {
		f.mutations = append(f.mutations, "mkdir /"+k)
	}

	f.mkdirAll(k)

	return nil
}

func (f *FS) mkdirAll(k string) {
	for p := k; p != "."; p = path.Dir(p) {
		if _, ok := f.files[p]; ok {
			continue
		}

		f.files[p] = &fstest.MapFile{Mode: fs.ModeDir | 0o755, ModTime: time.Unix(0, 0)}
	}
}
