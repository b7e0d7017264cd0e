package write_test

import (
	"context"
	"strings"
	"testing"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/commands/write"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/arthur-debert/atfile/pkg/testutil"
	"github.com/arthur-debert/atfile/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const project = `
- headline: project
  children:
    - gnx: r
      headline: "@file /src/foo.py"
      body: "def f():\n    @others\n"
      children:
        - {gnx: c, headline: helper, body: "pass\n"}
    - {headline: "@file /src/new.py", body: "x = 1\n"}
`

func setup(t *testing.T, outline string) (filesystem.FS, write.WriteFilesOptions) {
	t.Helper()
	fsys := testutil.NewTestFS()
	require.NoError(t, fsys.WriteFile("/project.yaml", []byte(outline), 0644))
	return fsys, write.WriteFilesOptions{
		Outline: "/project.yaml",
		Codec:   atfile.Options{FS: fsys, Allocator: &testutil.SeqAllocator{}},
	}
}

func TestWriteFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("writes_every_derived_file", func(t *testing.T) {
		fsys, opts := setup(t, project)
		result, err := write.WriteFiles(ctx, opts)
		require.NoError(t, err)
		require.Len(t, result.Files, 2)
		assert.Equal(t, display.StatusCreated, result.Files[0].Status)
		assert.Equal(t, "2 written, 0 unchanged, 0 failed", result.Message)

		data, err := fsys.ReadFile("/src/foo.py")
		require.NoError(t, err)
		testutil.AssertText(t, strings.Join([]string{
			"#@+leo-ver=5-thin",
			"#@+node:r:@file /src/foo.py",
			"def f():",
			"    #@    @+others",
			"    #@+node:c:helper",
			"    pass",
			"    #@-node:c:helper",
			"    #@-others",
			"#@-node:r:@file /src/foo.py",
			"#@-leo",
		}, "\n")+"\n", string(data))
	})

	t.Run("second_write_is_unchanged", func(t *testing.T) {
		_, opts := setup(t, project)
		_, err := write.WriteFiles(ctx, opts)
		require.NoError(t, err)
		// A fresh allocator numbers the reloaded outline the same way.
		opts.Codec.Allocator = &testutil.SeqAllocator{}
		result, err := write.WriteFiles(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{display.StatusUnchanged: 2}, result.Counts())
	})

	t.Run("selects_files", func(t *testing.T) {
		fsys, opts := setup(t, project)
		opts.Files = []string{"/src/new.py"}
		result, err := write.WriteFiles(ctx, opts)
		require.NoError(t, err)
		require.Len(t, result.Files, 1)
		assert.False(t, filesystem.Exists(fsys, "/src/foo.py"))
	})

	t.Run("save_keeps_allocated_ids", func(t *testing.T) {
		fsys, opts := setup(t, project)
		opts.Save = true
		_, err := write.WriteFiles(ctx, opts)
		require.NoError(t, err)

		saved, err := fsys.ReadFile("/project.yaml")
		require.NoError(t, err)
		assert.Contains(t, string(saved), "gnx: n2")

		data, err := fsys.ReadFile("/src/new.py")
		require.NoError(t, err)
		assert.Contains(t, string(data), "#@+node:n2:@file /src/new.py\n")
	})

	t.Run("structural_errors_fail_the_file", func(t *testing.T) {
		fsys, opts := setup(t, `
- {gnx: r, headline: "@file /bad.py", body: "<<missing>>\n"}
`)
		result, err := write.WriteFiles(ctx, opts)
		require.NoError(t, err)
		assert.True(t, result.Failed())
		assert.NotZero(t, result.Files[0].Errors)
		assert.False(t, filesystem.Exists(fsys, "/bad.py"))
	})

	t.Run("shared_clones_are_written", func(t *testing.T) {
		fsys, opts := setup(t, `
- {gnx: a, headline: "@file /a.py", body: "@others\n", children: [{gnx: s, headline: s, body: "x\n"}]}
- {gnx: b, headline: "@file /b.py", body: "@others\n", children: [{clone: s}]}
`)
		result, err := write.WriteFiles(ctx, opts)
		require.NoError(t, err)
		assert.False(t, result.Failed())
		assert.True(t, filesystem.Exists(fsys, "/a.py"))
		assert.True(t, filesystem.Exists(fsys, "/b.py"))
	})

	t.Run("unknown_file", func(t *testing.T) {
		_, opts := setup(t, project)
		opts.Files = []string{"/nope.py"}
		_, err := write.WriteFiles(ctx, opts)
		assert.Error(t, err)
	})
}
