package internal

import (
	"context"
	"testing"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectYAML = `
- headline: project
  children:
    - gnx: a
      headline: "@file src/a.py"
      body: "@others\n"
      children:
        - {gnx: shared, headline: helper, body: "pass\n"}
        - {headline: "@file nested.py", body: "x\n"}
    - {gnx: b, headline: "@thin /abs/b.py", body: "y\n"}
    - {headline: notes, body: "not a file\n"}
`

func loadProject(t *testing.T, text string) *Project {
	t.Helper()
	fsys := testutil.NewTestFS()
	require.NoError(t, fsys.MkdirAll("/work", 0755))
	require.NoError(t, fsys.WriteFile("/work/project.yaml", []byte(text), 0644))
	p, err := LoadProject(fsys, "/work/project.yaml", &testutil.SeqAllocator{})
	require.NoError(t, err)
	return p
}

func TestLoadProject(t *testing.T) {
	t.Run("finds_derived_files", func(t *testing.T) {
		p := loadProject(t, projectYAML)
		files := p.Files()
		require.Len(t, files, 2)
		assert.Equal(t, "/work/src/a.py", files[0].Path)
		assert.Equal(t, "/abs/b.py", files[1].Path)
	})

	t.Run("unknown_format", func(t *testing.T) {
		fsys := testutil.NewTestFS()
		require.NoError(t, fsys.WriteFile("/p.txt", []byte("x"), 0644))
		_, err := LoadProject(fsys, "/p.txt", &testutil.SeqAllocator{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadProject(testutil.NewTestFS(), "/nope.yaml", &testutil.SeqAllocator{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	})

	t.Run("save_round_trips", func(t *testing.T) {
		p := loadProject(t, projectYAML)
		require.NoError(t, p.Save(context.Background()))
		again, err := LoadProject(p.fs, p.Path, &testutil.SeqAllocator{})
		require.NoError(t, err)
		require.Len(t, again.Roots, 1)
		testutil.AssertSameTree(t, p.Roots[0], again.Roots[0])
	})
}

func TestSelect(t *testing.T) {
	files := loadProject(t, projectYAML).Files()

	tests := []struct {
		name  string
		names []string
		want  []string
		err   bool
	}{
		{"all", nil, []string{"/work/src/a.py", "/abs/b.py"}, false},
		{"resolved_path", []string{"/work/src/a.py"}, []string{"/work/src/a.py"}, false},
		{"headline_path", []string{"src/a.py"}, []string{"/work/src/a.py"}, false},
		{"unknown", []string{"c.py"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(files, tt.names)
			if tt.err {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			var paths []string
			for _, f := range got {
				paths = append(paths, f.Path)
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestIndependent(t *testing.T) {
	p := loadProject(t, projectYAML)
	assert.True(t, Independent(p.Files()))

	shared := loadProject(t, `
- {gnx: a, headline: "@file a.py", body: "@others\n", children: [{gnx: s, headline: s, body: "x\n"}]}
- {gnx: b, headline: "@file b.py", body: "@others\n", children: [{clone: s}]}
`)
	assert.False(t, Independent(shared.Files()))
}
