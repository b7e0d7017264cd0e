package write

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/commands/internal"
	"github.com/arthur-debert/atfile/pkg/logging"
	"github.com/arthur-debert/atfile/pkg/ui/display"
)

// WriteFilesOptions defines the options for the WriteFiles command.
type WriteFilesOptions struct {
	// Outline is the path of the .leo or .yaml outline.
	Outline string
	// Files restricts the write to these derived files. Empty means all.
	Files []string
	// Save writes the outline back after a successful write, keeping the
	// gnx values allocated for new nodes.
	Save bool
	// Codec configures the codec. Its FS is used for the outline too.
	Codec atfile.Options
}

// WriteFiles writes the derived files named by an outline's @file nodes.
// Files whose content did not change are left untouched.
func WriteFiles(ctx context.Context, opts WriteFilesOptions) (*display.CommandResult, error) {
	log := logging.GetLogger("commands.write")
	log.Debug().Str("command", "WriteFiles").Str("outline", opts.Outline).Msg("Executing command")

	codec, err := atfile.NewCodec(opts.Codec)
	if err != nil {
		return nil, err
	}
	copts := codec.Options()

	p, err := internal.LoadProject(copts.FS, opts.Outline, copts.Allocator)
	if err != nil {
		return nil, err
	}
	files, err := internal.Select(p.Files(), opts.Files)
	if err != nil {
		return nil, err
	}

	// Writes mark shared nodes, so trees with common clones go one at a time.
	if !internal.Independent(files) {
		copts.Concurrency = 1
		if codec, err = atfile.NewCodec(copts); err != nil {
			return nil, err
		}
	}

	jobs := make([]atfile.Job, len(files))
	for i, f := range files {
		jobs[i] = atfile.Job{Root: f.Root, Path: f.Path}
	}
	results, err := codec.WriteAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	result := &display.CommandResult{Command: "write", Timestamp: time.Now()}
	for _, res := range results {
		result.Files = append(result.Files, display.FromWrite(res))
	}
	counts := result.Counts()
	result.Message = fmt.Sprintf("%d written, %d unchanged, %d failed",
		counts[display.StatusCreated]+counts[display.StatusChanged],
		counts[display.StatusUnchanged], counts[display.StatusFailed])

	if opts.Save && !result.Failed() {
		if err := p.Save(ctx); err != nil {
			return nil, err
		}
	}

	log.Info().Str("command", "WriteFiles").Int("files", len(results)).Msg("Command finished")
	return result, nil
}
