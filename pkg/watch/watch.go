// Package watch re-runs a function whenever the contents of a folder change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/shelf/pkg/log"
)

// DefaultDebounce is how long a [Watcher] waits for events to settle.
const DefaultDebounce = 250 * time.Millisecond

var ErrClosed = errors.New("watcher closed")

// Watcher observes a single folder (not its subfolders).
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
}

type WatcherOpt func(*Watcher)

// WithDebounce sets how long to wait after the last event before running.
func WithDebounce(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a [Watcher] for the folder at path.
func New(path string, opts ...WatcherOpt) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	err = fw.Add(path)
	if err != nil {
		closeErr := fw.Close()

		return nil, errors.Join(fmt.Errorf("watch %s: %w", path, err), closeErr)
	}

	w := &Watcher{
		watcher:  fw,
		path:     path,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run calls fn once, then again after every settled burst of changes, until
// ctx is canceled. Permission-only changes are ignored.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context)) error {
	logger := log.WithContext(ctx).With(slog.String("path", w.path))

	fn(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}

			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			logger.DebugContext(ctx, "folder changed", slog.String("event", evt.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			fn(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}

			logger.ErrorContext(ctx, "watch folder", slog.Any("error", err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
