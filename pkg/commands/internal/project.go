package internal

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	stderrors "errors"

	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/arthur-debert/atfile/pkg/logging"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/replace"
)

// Project is an outline file together with the derived files it names.
type Project struct {
	Path  string
	Roots []*outline.Node

	fs filesystem.FS
}

// DerivedFile is an @file node of a project and the path it resolves to.
type DerivedFile struct {
	Root *outline.Node
	// Path is the headline path, joined to the outline's directory when
	// relative.
	Path string
}

// LoadProject reads an outline file. ".leo" and ".xml" files are Leo
// outlines; ".yaml" and ".yml" files are YAML outlines. Nodes without a
// gnx get one from alloc.
func LoadProject(fsys filesystem.FS, path string, alloc gnx.Allocator) (*Project, error) {
	logger := logging.GetLogger("commands.project")

	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "outline not found: %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read outline %s", path)
	}

	var roots []*outline.Node
	switch strings.ToLower(filepath.Ext(path)) {
	case ".leo", ".xml":
		roots, err = outline.ReadLeo(bytes.NewReader(data), alloc)
	case ".yaml", ".yml":
		roots, err = outline.UnmarshalYAML(data, alloc)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown outline format: %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrOutlineParse, "cannot load outline %s", path)
	}

	logger.Debug().Str("outline", path).Int("roots", len(roots)).Msg("outline loaded")
	return &Project{Path: path, Roots: roots, fs: fsys}, nil
}

// Save writes the outline back in the format it was loaded from. The file
// is replaced only when its content changes.
func (p *Project) Save(ctx context.Context) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(p.Path)) {
	case ".leo", ".xml":
		if err := outline.WriteLeo(&buf, p.Roots); err != nil {
			return err
		}
	default:
		data, err := outline.MarshalYAML(p.Roots)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cannot encode outline")
		}
		buf.Write(data)
	}
	_, err := replace.New(p.fs).Replace(ctx, p.Path, buf.Bytes())
	return err
}

// Index returns an index of every node of the project.
func (p *Project) Index() *outline.Index {
	return outline.IndexTree(p.Roots...)
}

// Files lists the project's @file and @thin nodes in outline order. The
// subtree of a derived file node is not searched.
func (p *Project) Files() []DerivedFile {
	var files []DerivedFile
	seen := map[*outline.Node]bool{}
	for _, root := range p.Roots {
		root.Walk(func(pos outline.Position) bool {
			_, path := directives.ParseFileHeadline(pos.Node.Headline())
			if path == "" {
				return true
			}
			if !seen[pos.Node] {
				seen[pos.Node] = true
				files = append(files, DerivedFile{Root: pos.Node, Path: p.resolve(path)})
			}
			return false
		})
	}
	return files
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(p.Path), path)
}

// Select keeps the files whose path matches one of names. A name matches
// the resolved path or the path as written in the headline. No names
// selects every file.
func Select(files []DerivedFile, names []string) ([]DerivedFile, error) {
	if len(names) == 0 {
		return files, nil
	}
	var out []DerivedFile
	for _, name := range names {
		found := false
		for _, f := range files {
			_, written := directives.ParseFileHeadline(f.Root.Headline())
			if filepath.Clean(name) == filepath.Clean(f.Path) || name == written {
				out = append(out, f)
				found = true
			}
		}
		if !found {
			return nil, errors.Newf(errors.ErrInvalidInput, "no derived file named %s", name)
		}
	}
	return out, nil
}

// Independent reports whether no two files share a node, which makes it
// safe to process them concurrently.
func Independent(files []DerivedFile) bool {
	owner := map[*outline.Node]*outline.Node{}
	for _, f := range files {
		for _, n := range f.Root.Subtree() {
			if o, ok := owner[n]; ok && o != f.Root {
				return false
			}
			owner[n] = f.Root
		}
	}
	return true
}
