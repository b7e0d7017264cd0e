package replace

import (
	"context"
	"io/fs"
	"testing"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS(t *testing.T) filesystem.FS {
	t.Helper()
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

func TestReplace(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_missing_target", func(t *testing.T) {
		fsys := newFS(t)
		r := New(fsys)

		res, err := r.Replace(ctx, "/out/foo.py", []byte("x\n"))
		require.NoError(t, err)
		assert.Equal(t, Result{Changed: true, Created: true}, res)

		data, err := fsys.ReadFile("/out/foo.py")
		require.NoError(t, err)
		assert.Equal(t, "x\n", string(data))
		assert.False(t, filesystem.Exists(fsys, "/out/foo.py"+TempSuffix))
	})

	t.Run("leaves_identical_target_alone", func(t *testing.T) {
		fsys := newFS(t)
		require.NoError(t, fsys.WriteFile("/foo.py", []byte("x\n"), 0644))

		res, err := New(fsys).Replace(ctx, "/foo.py", []byte("x\n"))
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		assert.False(t, filesystem.Exists(fsys, "/foo.py"+TempSuffix))
	})

	t.Run("replaces_changed_target", func(t *testing.T) {
		fsys := newFS(t)
		require.NoError(t, fsys.WriteFile("/foo.py", []byte("x\n"), 0644))

		res, err := New(fsys).Replace(ctx, "/foo.py", []byte("y\n"))
		require.NoError(t, err)
		assert.Equal(t, Result{Changed: true}, res)

		data, _ := fsys.ReadFile("/foo.py")
		assert.Equal(t, "y\n", string(data))
	})

	t.Run("line_endings_only", func(t *testing.T) {
		fsys := newFS(t)
		require.NoError(t, fsys.WriteFile("/foo.py", []byte("a\r\nb\r\n"), 0644))

		res, err := New(fsys).Replace(ctx, "/foo.py", []byte("a\nb\n"))
		require.NoError(t, err)
		assert.True(t, res.Changed)

		res, err = New(fsys, IgnoreLineEndings(true)).Replace(ctx, "/foo.py", []byte("a\r\nb\r\n"))
		require.NoError(t, err)
		assert.False(t, res.Changed)
	})

	t.Run("new_file_permissions", func(t *testing.T) {
		fsys := newFS(t)
		_, err := New(fsys, WithPerm(0600)).Replace(ctx, "/foo.py", []byte("x\n"))
		require.NoError(t, err)

		info, err := fsys.Stat("/foo.py")
		require.NoError(t, err)
		assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())
	})

	t.Run("cancelled_context_writes_nothing", func(t *testing.T) {
		fsys := newFS(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := New(fsys).Replace(cctx, "/foo.py", []byte("x\n"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrCancelled))
		assert.False(t, filesystem.Exists(fsys, "/foo.py"))
		assert.False(t, filesystem.Exists(fsys, "/foo.py"+TempSuffix))
	})
}

func TestReplaceReadOnlyFS(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	_, err := New(fsys).Replace(context.Background(), "foo.py", []byte("x\n"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite), "got %v", err)
}

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", string(NormalizeLineEndings([]byte("a\r\nb\rc\n"))))
}
