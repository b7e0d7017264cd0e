package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/spf13/afero"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() filesystem.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// FailingFS wraps a filesystem and fails selected operations on selected
// paths.
type FailingFS struct {
	filesystem.FS

	mu    sync.Mutex
	fails map[string]map[string]error
}

// NewFailingFS wraps fsys.
func NewFailingFS(fsys filesystem.FS) *FailingFS {
	return &FailingFS{FS: fsys, fails: map[string]map[string]error{}}
}

// Fail makes op ("read", "write", "rename", "remove" or "mkdir") on path
// return err.
func (f *FailingFS) Fail(op, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails[op] == nil {
		f.fails[op] = map[string]error{}
	}
	f.fails[op][filepath.Clean(path)] = err
}

func (f *FailingFS) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fails[op][filepath.Clean(path)]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (f *FailingFS) ReadFile(name string) ([]byte, error) {
	if err := f.check("read", name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FailingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check("write", name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FailingFS) Rename(oldpath, newpath string) error {
	if err := f.check("rename", newpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FailingFS) Remove(name string) error {
	if err := f.check("remove", name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FailingFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check("mkdir", path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}
