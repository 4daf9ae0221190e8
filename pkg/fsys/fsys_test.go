package fsys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/fsys/fsystest"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestOS_Rename(t *testing.T) {
	t.Parallel()

	t.Run("moves file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "a")

		err := fsys.NewOS().Rename(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"))
		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
		assert.FileExists(t, filepath.Join(dir, "b.txt"))
	})

	t.Run("never overwrites", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "a")
		writeFile(t, filepath.Join(dir, "b.txt"), "b")

		err := fsys.NewOS().Rename(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"))
		require.ErrorIs(t, err, fsys.ErrDestinationExists)

		got, err := os.ReadFile(filepath.Join(dir, "b.txt"))
		require.NoError(t, err)
		assert.Equal(t, "b", string(got))
		assert.FileExists(t, filepath.Join(dir, "a.txt"))
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		err := fsys.NewOS().Rename(filepath.Join(dir, "nope"), filepath.Join(dir, "b"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "")
	writeFile(t, filepath.Join(dir, "a.txt"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "")
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken")))

	osfs := fsys.NewOS()

	files, err := fsys.Files(osfs, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "link.txt"}, files)

	dirs, err := fsys.Dirs(osfs, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub"}, dirs)

	n, err := fsys.Entries(osfs, filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.True(t, fsys.IsDir(osfs, dir))
	assert.False(t, fsys.IsDir(osfs, filepath.Join(dir, "a.txt")))
	assert.False(t, fsys.IsDir(osfs, filepath.Join(dir, "missing")))

	_, err = fsys.Files(osfs, filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFake(t *testing.T) {
	t.Parallel()

	fake := fsystest.New().
		WriteFile("/data/A/one.mkv", "1").
		WriteFile("/data/A/two.mkv", "22").
		Mkdir("/data/empty")

	files, err := fsys.Files(fake, "/data/A")
	require.NoError(t, err)
	assert.Equal(t, []string{"one.mkv", "two.mkv"}, files)

	dirs, err := fsys.Dirs(fake, "/data")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "empty"}, dirs)

	require.ErrorIs(t, fake.Rename("/data/A/one.mkv", "/data/A/two.mkv"), fsys.ErrDestinationExists)
	require.NoError(t, fake.Rename("/data/A/one.mkv", "/data/empty/one.mkv"))
	require.Error(t, fake.Remove("/data/empty"))
	require.NoError(t, fake.MkdirAll("/data/new/deep"))
	require.NoError(t, fake.Rename("/data/A", "/data/new/deep/A"))

	assert.True(t, fake.Exists("/data/new/deep/A/two.mkv"))
	assert.False(t, fake.Exists("/data/A"))
	assert.Equal(t, []string{
		"rename /data/A/one.mkv -> /data/empty/one.mkv",
		"mkdir /data/new/deep",
		"rename /data/A -> /data/new/deep/A",
	}, fake.Mutations())
}

func TestFake_Fail(t *testing.T) {
	t.Parallel()

	fake := fsystest.New().
		WriteFile("/a/x", "").
		Fail(fsystest.OpRename, "/a/x", os.ErrPermission)

	err := fake.Rename("/a/x", "/a/y")
	require.ErrorIs(t, err, os.ErrPermission)
	assert.True(t, fake.Exists("/a/x"))
	assert.Empty(t, fake.Mutations())
}
