package testutil

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline(t *testing.T) {
	root := Outline(t, `
- headline: "@file foo.py"
  body: "@others\n"
  children:
    - {gnx: c, headline: helper, body: "pass\n"}
    - {clone: c}
`)
	assert.Equal(t, "n1", root.ID().String())
	require.Equal(t, 2, root.NumChildren())
	assert.Same(t, root.Child(0), root.Child(1))
	assert.Equal(t, "pass\n", root.Child(0).Body())
}

func TestFailingFS(t *testing.T) {
	boom := errors.New("boom")
	fsys := NewFailingFS(NewTestFS())
	fsys.Fail("write", "/a/x", boom)

	require.NoError(t, fsys.MkdirAll("/a", 0755))
	err := fsys.WriteFile("/a/x", []byte("x"), 0644)
	assert.ErrorIs(t, err, boom)
	var pathErr *fs.PathError
	assert.ErrorAs(t, err, &pathErr)

	require.NoError(t, fsys.WriteFile("/a/y", []byte("y"), 0644))
	data, err := fsys.ReadFile("/a/y")
	require.NoError(t, err)
	assert.Equal(t, "y", string(data))
}

func TestSeqAllocator(t *testing.T) {
	a := &SeqAllocator{}
	assert.Equal(t, "n1", a.Next().String())
	assert.Equal(t, "n2", a.Next().String())
}
