package scan_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/fsys/fsystest"
	"github.com/macropower/shelf/pkg/scan"
)

func newTree() *fsystest.FS {
	return fsystest.New().
		WriteFile("/r/A/a.txt", "").
		WriteFile("/r/AKey/k.txt", "").
		WriteFile("/r/AKey/InnerKey/i.txt", "").
		WriteFile("/r/B/Key2/deep/DeepKey/d.txt", "").
		WriteFile("/r/file-Key.txt", "")
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts scan.Options
		want []string
	}{
		"shallow": {
			opts: scan.Options{Keyword: "Key"},
			want: []string{"/r/AKey"},
		},
		"recursive top down": {
			opts: scan.Options{Keyword: "Key", Recursive: true},
			want: []string{"/r/AKey", "/r/AKey/InnerKey", "/r/B/Key2", "/r/B/Key2/deep/DeepKey"},
		},
		"recursive bottom up": {
			opts: scan.Options{Keyword: "Key", Recursive: true, Order: scan.BottomUp},
			want: []string{"/r/AKey/InnerKey", "/r/AKey", "/r/B/Key2/deep/DeepKey", "/r/B/Key2"},
		},
		"case sensitive": {
			opts: scan.Options{Keyword: "key", Recursive: true},
			want: nil,
		},
		"empty keyword matches all": {
			opts: scan.Options{},
			want: []string{"/r/A", "/r/AKey", "/r/B"},
		},
		"exclude": {
			opts: scan.Options{Keyword: "Key", Recursive: true, Exclude: []string{"/r/AKey/"}},
			want: []string{"/r/AKey/InnerKey", "/r/B/Key2", "/r/B/Key2/deep/DeepKey"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := scan.Select(newTree(), "/r", tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelect_InvalidRoot(t *testing.T) {
	t.Parallel()

	_, err := scan.Select(newTree(), "/missing", scan.Options{})
	require.ErrorIs(t, err, scan.ErrInvalidRoot)

	_, err = scan.Select(newTree(), "/r/file-Key.txt", scan.Options{})
	require.ErrorIs(t, err, scan.ErrInvalidRoot)
}

func TestSelect_OnError(t *testing.T) {
	t.Parallel()

	tree := newTree().Fail(fsystest.OpReadDir, "/r/B", os.ErrPermission)

	var failed []string

	got, err := scan.Select(tree, "/r", scan.Options{
		Keyword:   "Key",
		Recursive: true,
		OnError: func(path string, _ error) {
			failed = append(failed, path)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/AKey", "/r/AKey/InnerKey"}, got)
	assert.Equal(t, []string{"/r/B"}, failed)
}
