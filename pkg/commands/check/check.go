package check

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"time"

	stderrors "errors"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/logging"
	"github.com/arthur-debert/atfile/pkg/ui/display"
	"golang.org/x/sync/errgroup"
)

// CheckFilesOptions defines the options for the CheckFiles command.
type CheckFilesOptions struct {
	Files []string
	Codec atfile.Options
}

// CheckFiles verifies that each derived file is written back byte for byte
// after being read. Files are checked concurrently; each check reads into
// its own tree.
func CheckFiles(ctx context.Context, opts CheckFilesOptions) (*display.CommandResult, error) {
	log := logging.GetLogger("commands.check")
	log.Debug().Str("command", "CheckFiles").Strs("files", opts.Files).Msg("Executing command")

	codec, err := atfile.NewCodec(opts.Codec)
	if err != nil {
		return nil, err
	}
	copts := codec.Options()

	files := make([]display.FileResult, len(opts.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copts.Concurrency)
	for i, path := range opts.Files {
		g.Go(func() error {
			data, err := copts.FS.ReadFile(path)
			if err != nil {
				if stderrors.Is(err, fs.ErrNotExist) {
					return errors.Wrapf(err, errors.ErrFileNotFound, "derived file not found: %s", path)
				}
				return errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path)
			}
			res, err := codec.Check(gctx, bytes.NewReader(data), path)
			if err != nil {
				return err
			}
			files[i] = display.FromCheck(path, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &display.CommandResult{Command: "check", Files: files, Timestamp: time.Now()}
	counts := result.Counts()
	result.Message = fmt.Sprintf("%d clean, %d failed", counts[display.StatusClean], counts[display.StatusFailed])
	log.Info().Str("command", "CheckFiles").Int("files", len(files)).Msg("Command finished")
	return result, nil
}
