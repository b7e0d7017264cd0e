// Package replace writes derived files without disturbing unchanged
// targets. New content goes to a temporary file next to the target; the
// temporary file replaces the target only when the content differs, so an
// unchanged file keeps its modification time.
package replace

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/arthur-debert/atfile/pkg/logging"
)

// TempSuffix is appended to the target path to name the temporary file.
const TempSuffix = ".tmp"

// Result reports what Replace did.
type Result struct {
	// Changed is true when the target now holds new content.
	Changed bool
	// Created is true when the target did not exist before.
	Created bool
}

// Replacer installs new content at a path.
type Replacer interface {
	Replace(ctx context.Context, path string, data []byte) (Result, error)
}

// Option configures an FSReplacer.
type Option func(*FSReplacer)

// IgnoreLineEndings makes content that differs only in line endings count
// as unchanged.
func IgnoreLineEndings(ignore bool) Option {
	return func(r *FSReplacer) { r.ignoreLineEndings = ignore }
}

// WithPerm sets the permissions of newly created files.
func WithPerm(perm fs.FileMode) Option {
	return func(r *FSReplacer) { r.perm = perm }
}

// FSReplacer implements Replacer on a filesystem.FS.
type FSReplacer struct {
	fs                filesystem.FS
	ignoreLineEndings bool
	perm              fs.FileMode
}

// New returns a replacer working on fsys.
func New(fsys filesystem.FS, opts ...Option) *FSReplacer {
	r := &FSReplacer{fs: fsys, perm: 0644}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Replace writes data to path if it differs from the current content.
func (r *FSReplacer) Replace(ctx context.Context, path string, data []byte) (Result, error) {
	logger := logging.GetLogger("replace")

	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCancelled, "replace cancelled")
	}

	if dir := filepath.Dir(path); dir != "." && dir != string(filepath.Separator) {
		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", dir)
		}
	}

	tmp := path + TempSuffix
	if err := r.fs.WriteFile(tmp, data, r.perm); err != nil {
		_ = r.fs.Remove(tmp)
		return Result{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", tmp)
	}

	old, err := r.fs.ReadFile(path)
	exists := err == nil
	if exists && r.same(old, data) {
		if err := r.fs.Remove(tmp); err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrReplace, "cannot remove %s", tmp)
		}
		logger.Debug().Str("path", path).Msg("unchanged")
		return Result{}, nil
	}

	if err := ctx.Err(); err != nil {
		_ = r.fs.Remove(tmp)
		return Result{}, errors.Wrap(err, errors.ErrCancelled, "replace cancelled")
	}
	if err := r.fs.Rename(tmp, path); err != nil {
		_ = r.fs.Remove(tmp)
		return Result{}, errors.Wrapf(err, errors.ErrReplace, "cannot replace %s", path).
			WithDetail("temp", tmp)
	}

	logger.Info().Str("path", path).Bool("created", !exists).Msg("wrote")
	return Result{Changed: true, Created: !exists}, nil
}

func (r *FSReplacer) same(a, b []byte) bool {
	if r.ignoreLineEndings {
		return bytes.Equal(NormalizeLineEndings(a), NormalizeLineEndings(b))
	}
	return bytes.Equal(a, b)
}

// NormalizeLineEndings converts "\r\n" and "\r" line endings to "\n".
func NormalizeLineEndings(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}
