package classify

import (
	"bytes"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/logging"
	"github.com/arthur-debert/atfile/pkg/ui/display"
)

// ClassifyFileOptions defines the options for the ClassifyFile command.
type ClassifyFileOptions struct {
	File  string
	Codec atfile.Options
}

// ClassifyFile reports the sentinel kind of every line of a derived file.
func ClassifyFile(opts ClassifyFileOptions) (*display.ClassifyResult, error) {
	log := logging.GetLogger("commands.classify")
	log.Debug().Str("command", "ClassifyFile").Str("file", opts.File).Msg("Executing command")

	codec, err := atfile.NewCodec(opts.Codec)
	if err != nil {
		return nil, err
	}
	data, err := codec.Options().FS.ReadFile(opts.File)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", opts.File)
	}
	hdr, lines, err := codec.Classify(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return display.FromClassify(opts.File, hdr.Text(), lines), nil
}
