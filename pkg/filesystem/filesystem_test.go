package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFS(t *testing.T) {
	fsys := NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, fsys.MkdirAll("/src", 0755))
	require.NoError(t, fsys.WriteFile("/src/a.py", []byte("a\n"), 0644))
	assert.True(t, Exists(fsys, "/src/a.py"))
	assert.False(t, Exists(fsys, "/src/missing.py"))

	_, err := fsys.ReadFile("/src")
	assert.Error(t, err, "reading a directory fails")

	require.NoError(t, fsys.WriteFile("/src/a.py.tmp", []byte("b\n"), 0644))
	require.NoError(t, fsys.Rename("/src/a.py.tmp", "/src/a.py"))
	data, err := fsys.ReadFile("/src/a.py")
	require.NoError(t, err)
	assert.Equal(t, "b\n", string(data))
	assert.False(t, Exists(fsys, "/src/a.py.tmp"))

	require.NoError(t, fsys.Remove("/src/a.py"))
	assert.False(t, Exists(fsys, "/src/a.py"))
}

func TestOSRenameReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOS()

	target := filepath.Join(dir, "out.c")
	tmp := target + ".tmp"
	require.NoError(t, fsys.WriteFile(target, []byte("old"), 0644))
	require.NoError(t, fsys.WriteFile(tmp, []byte("new"), 0644))

	require.NoError(t, fsys.Rename(tmp, target))

	data, err := fsys.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.False(t, Exists(fsys, tmp))
}
