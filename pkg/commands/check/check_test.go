package check_test

import (
	"context"
	"strings"
	"testing"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/commands/check"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/testutil"
	"github.com/arthur-debert/atfile/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(ls ...string) []byte {
	return []byte(strings.Join(ls, "\n") + "\n")
}

func TestCheckFiles(t *testing.T) {
	fsys := testutil.NewTestFS()
	require.NoError(t, fsys.WriteFile("/clean.py", lines(
		"#@+leo-ver=5-thin",
		"#@+node:r:@file clean.py",
		"x = 1",
		"#@-node:r:@file clean.py",
		"#@-leo",
	), 0644))
	require.NoError(t, fsys.WriteFile("/broken.py", lines(
		"#@+leo-ver=5-thin",
		"#@+node:r:@file broken.py",
		"#@+others",
		"#@+node:c:helper",
		"pass",
		"#@-node:c:helper",
		"#@-node:r:@file broken.py",
		"#@-leo",
	), 0644))
	require.NoError(t, fsys.WriteFile("/plain.py", lines("x = 1"), 0644))
	ctx := context.Background()

	t.Run("clean_and_broken", func(t *testing.T) {
		result, err := check.CheckFiles(ctx, check.CheckFilesOptions{
			Files: []string{"/clean.py", "/broken.py"},
			Codec: atfile.Options{FS: fsys},
		})
		require.NoError(t, err)
		require.Len(t, result.Files, 2)
		assert.Equal(t, display.StatusClean, result.Files[0].Status)
		assert.Empty(t, result.Files[0].Diff)
		assert.Equal(t, display.StatusFailed, result.Files[1].Status)
		assert.Equal(t, "1 clean, 1 failed", result.Message)
	})

	t.Run("not_a_derived_file", func(t *testing.T) {
		_, err := check.CheckFiles(ctx, check.CheckFilesOptions{
			Files: []string{"/plain.py"},
			Codec: atfile.Options{FS: fsys},
		})
		assert.True(t, errors.IsErrorCode(err, errors.ErrBadHeader))
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := check.CheckFiles(ctx, check.CheckFilesOptions{
			Files: []string{"/nope.py"},
			Codec: atfile.Options{FS: fsys},
		})
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	})
}
