package read

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/commands/internal"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/logging"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/ui/display"
)

// ReadFilesOptions defines the options for the ReadFiles command.
type ReadFilesOptions struct {
	// Outline, when set, is updated from its derived files and saved.
	// Otherwise each of Files is read into a new tree.
	Outline string
	// Files are the derived files to read. With an outline, empty means
	// all of its derived files.
	Files []string
	Codec atfile.Options
}

// ReadFilesResult holds the read trees and the per-file report.
type ReadFilesResult struct {
	Result *display.CommandResult
	// Roots are the outline's roots, or one new tree per file read.
	Roots []*outline.Node
}

// ReadFiles rebuilds outline trees from derived files. All files share one
// gnx index, so a node appearing in several files becomes a clone.
func ReadFiles(ctx context.Context, opts ReadFilesOptions) (*ReadFilesResult, error) {
	log := logging.GetLogger("commands.read")
	log.Debug().Str("command", "ReadFiles").Str("outline", opts.Outline).Strs("files", opts.Files).Msg("Executing command")

	if opts.Outline == "" && len(opts.Files) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "nothing to read")
	}

	codec, err := atfile.NewCodec(opts.Codec)
	if err != nil {
		return nil, err
	}
	copts := codec.Options()

	var (
		files   []internal.DerivedFile
		project *internal.Project
	)
	if opts.Outline != "" {
		if project, err = internal.LoadProject(copts.FS, opts.Outline, copts.Allocator); err != nil {
			return nil, err
		}
		if files, err = internal.Select(project.Files(), opts.Files); err != nil {
			return nil, err
		}
		copts.Index = project.Index()
	} else {
		for _, path := range opts.Files {
			files = append(files, internal.DerivedFile{Root: outline.New("", "", ""), Path: path})
		}
		copts.Index = outline.NewIndex()
	}
	if codec, err = atfile.NewCodec(copts); err != nil {
		return nil, err
	}

	result := &ReadFilesResult{
		Result: &display.CommandResult{Command: "read", Timestamp: time.Now()},
	}
	for _, f := range files {
		res, err := codec.ReadFile(ctx, f.Root, f.Path)
		if err != nil {
			return nil, err
		}
		result.Result.Files = append(result.Result.Files, display.FromRead(f.Path, res))
	}

	if project != nil {
		result.Roots = project.Roots
		if !result.Result.Failed() {
			if err := project.Save(ctx); err != nil {
				return nil, err
			}
		}
	} else {
		for _, f := range files {
			result.Roots = append(result.Roots, f.Root)
		}
	}

	counts := result.Result.Counts()
	result.Result.Message = fmt.Sprintf("%d read, %d failed", counts[display.StatusRead], counts[display.StatusFailed])
	log.Info().Str("command", "ReadFiles").Int("files", len(files)).Msg("Command finished")
	return result, nil
}
