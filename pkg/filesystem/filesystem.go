// Package filesystem provides the filesystem abstraction derived files are
// read from and written to.
//
// Two implementations are provided: NewOS for the real filesystem and
// NewAferoFS for any afero.Fs, which tests use with an in-memory backend.
package filesystem

import (
	"errors"
	"io/fs"
)

// FS is the set of filesystem operations the codec and the replace service
// need.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error

	// Rename replaces newpath with oldpath. Implementations make the
	// replacement atomic where the platform allows it.
	Rename(oldpath, newpath string) error
}

// Exists reports whether name exists. Errors other than "not found" are
// treated as existing so callers do not silently overwrite.
func Exists(fsys FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
