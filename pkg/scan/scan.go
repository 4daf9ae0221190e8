// Package scan selects keyword folders under a root directory.
package scan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/macropower/shelf/pkg/fsys"
)

var ErrInvalidRoot = errors.New("folder does not exist or is not a directory")

// Order controls the order in which recursive selections are returned.
type Order int

const (
	// TopDown returns each folder before its descendants.
	TopDown Order = iota
	// BottomUp returns each folder after its descendants.
	BottomUp
)

// Options configures [Select].
type Options struct {
	// OnError is called for each descendant folder that cannot be read.
	// The folder is skipped. May be nil.
	OnError func(path string, err error)
	// Keyword is matched as a case-sensitive substring of the folder's base
	// name. An empty keyword matches every folder.
	Keyword string
	// Exclude lists folders that are never selected. They are still
	// traversed.
	Exclude []string
	// Recursive selects folders at any depth instead of immediate children.
	Recursive bool
	Order     Order
}

// Select returns the folders under root whose name contains the keyword.
// The root itself is never selected. Siblings are visited in name order.
func Select(fs fsys.FS, root string, opts Options) ([]string, error) {
	if !fsys.IsDir(fs, root) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	names, err := fsys.Dirs(fs, root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", root, err)
	}

	s := &selector{fs: fs, opts: opts, exclude: map[string]bool{}}
	for _, p := range opts.Exclude {
		s.exclude[filepath.Clean(p)] = true
	}

	for _, name := range names {
		s.visit(filepath.Join(root, name), name)
	}

	return s.out, nil
}

type selector struct {
	fs      fsys.FS
	exclude map[string]bool
	out     []string
	opts    Options
}

func (s *selector) match(path, name string) bool {
	return strings.Contains(name, s.opts.Keyword) && !s.exclude[filepath.Clean(path)]
}

func (s *selector) visit(path, name string) {
	if !s.opts.Recursive {
		if s.match(path, name) {
			s.out = append(s.out, path)
		}

		return
	}

	if s.opts.Order == TopDown && s.match(path, name) {
		s.out = append(s.out, path)
	}

	children, err := fsys.Dirs(s.fs, path)
	if err != nil {
		if s.opts.OnError != nil {
			s.opts.OnError(path, err)
		}
	}

	for _, child := range children {
		s.visit(filepath.Join(path, child), child)
	}

	if s.opts.Order == BottomUp && s.match(path, name) {
		s.out = append(s.out, path)
	}
}
