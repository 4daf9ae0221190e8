package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/watch"
)

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := watch.New(dir, watch.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, w.Close())
	})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var runs atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) {
			runs.Add(1)
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	for _, name := range []string{"a.mkv", "b.mkv", "c.mkv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestNew_MissingFolder(t *testing.T) {
	t.Parallel()

	_, err := watch.New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
