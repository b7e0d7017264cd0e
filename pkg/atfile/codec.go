package atfile

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"strings"

	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/logging"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Codec reads and writes derived files. A Codec holds only configuration;
// each call runs an independent session, so a Codec may be shared between
// goroutines as long as concurrent calls work on disjoint trees.
type Codec struct {
	opts   Options
	logger zerolog.Logger
}

// NewCodec validates opts and returns a codec.
func NewCodec(opts Options) (*Codec, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Codec{opts: opts, logger: logging.GetLogger("atfile")}, nil
}

// Options returns the codec's options with defaults applied.
func (c *Codec) Options() Options { return c.opts }

// ReadResult describes a completed read.
type ReadResult struct {
	Report
	Header sentinel.Header
	// Encoding is the encoding the file was decoded with.
	Encoding string
	// Orphans are nodes of the tree the file did not mention.
	Orphans []*outline.Node
	// Comments are the texts of the file's @comment sentinels.
	Comments []string
	// Leading and Trailing are the lines before the header and after
	// @-leo that no @first or @last directive of the root claimed. They
	// were added to the root body as new directives, so the next write
	// keeps them.
	Leading  []string
	Trailing []string
}

// WriteResult describes a completed write.
type WriteResult struct {
	Report
	Path    string
	Changed bool
	Created bool
	// Output is the encoded file content. It is nil when the session
	// recorded errors.
	Output []byte
}

// CheckResult describes a round-trip check.
type CheckResult struct {
	Report
	Header sentinel.Header
	// Diff is a unified diff from the file to its rewritten form, empty
	// when the file round-trips.
	Diff string
}

// Read parses the derived file in src into the tree rooted at root. Node
// bodies are replaced by the file's text; nodes are matched by gnx in the
// thin dialect and by position in the thick one, and created when
// missing. path selects the language defaults and may be empty.
//
// Structural problems are counted in the result's Report. The returned
// error is reserved for configuration, I/O and cancellation; a cancelled
// read leaves the tree as it was.
func (c *Codec) Read(ctx context.Context, root *outline.Node, src io.Reader, path string) (*ReadResult, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path)
	}
	res, _, err := c.read(ctx, root, data, path)
	return res, err
}

// ReadFile reads the derived file at path, or at the path named by the
// root's @file headline when path is empty.
func (c *Codec) ReadFile(ctx context.Context, root *outline.Node, path string) (*ReadResult, error) {
	if path == "" {
		_, path = directives.ParseFileHeadline(root.Headline())
	}
	if path == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "node %q names no derived file", root.Headline())
	}
	data, err := c.opts.FS.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "derived file not found: %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path)
	}
	res, _, err := c.read(ctx, root, data, path)
	return res, err
}

// read returns the result and the decoded file text.
func (c *Codec) read(ctx context.Context, root *outline.Node, data []byte, path string) (*ReadResult, string, error) {
	defer logging.LogOperationStart(c.logger.With().Str("file", path).Logger(), "read")()

	s, err := c.readSettings(root, path)
	if err != nil {
		return nil, "", err
	}
	text, enc, err := decode(data, s.Encoding)
	if err != nil {
		return nil, "", err
	}
	text = normalizeNewlines(text)
	lines := splitLines(text)
	hdr, header, err := sentinel.FindHeader(lines)
	if err != nil {
		return nil, "", errors.Wrapf(err, errors.ErrBadHeader, "cannot read %s", path)
	}

	diag := newCollector(path, "reading", c.logger)
	r := newReader(ctx, root, header, s.TabWidth, c.opts, diag)
	if err := r.read(lines, hdr); err != nil {
		return nil, "", errors.Wrapf(err, errors.ErrCancelled, "read of %s cancelled", path)
	}
	orphans := r.orphans()
	for _, n := range orphans {
		diag.errorf(0, "orphan node: %s", n.Headline())
	}
	return &ReadResult{
		Report:   *diag.report,
		Header:   header,
		Encoding: enc,
		Orphans:  orphans,
		Comments: r.comments,
		Leading:  r.leading,
		Trailing: r.trailing,
	}, text, nil
}

// readSettings resolves the tab width and default encoding for a read.
// Delimiters come from the header, so a path without a known language is
// not an error here.
func (c *Codec) readSettings(root *outline.Node, path string) (directives.Settings, error) {
	s, err := c.opts.settings(root, path)
	if errors.IsErrorCode(err, errors.ErrBadDelimiter) {
		return directives.Settings{
			TabWidth:  c.opts.TabWidth,
			PageWidth: c.opts.PageWidth,
			Encoding:  c.opts.Encoding,
			Newline:   c.opts.Newline,
		}, nil
	}
	return s, err
}

// Write renders the tree rooted at root and installs it at path, or at the
// path named by the root's @file or @thin headline when path is empty. The
// target is replaced only when its content changes.
//
// When the session records errors nothing is written and the root is
// marked orphaned and dirty; a successful write clears both marks.
func (c *Codec) Write(ctx context.Context, root *outline.Node, path string) (*WriteResult, error) {
	path, dialect, err := c.opts.targetPath(root, path)
	if err != nil {
		return nil, err
	}
	s, err := c.opts.settings(root, path)
	if err != nil {
		return nil, err
	}
	defer logging.LogOperationStart(c.logger.With().Str("file", path).Logger(), "write")()

	diag := newCollector(path, "writing", c.logger)
	text, err := c.render(ctx, root, s, dialect, diag)
	if err != nil {
		markUnwritten(root)
		return nil, err
	}
	res := &WriteResult{Report: *diag.report, Path: path}
	if !res.OK() {
		markUnwritten(root)
		return res, nil
	}
	data, err := encode(withNewline(text, s.Newline), s.Encoding)
	if err != nil {
		markUnwritten(root)
		return nil, err
	}
	res.Output = data
	if c.opts.ToStringOnly {
		return res, nil
	}

	rr, err := c.opts.Replacer.Replace(ctx, path, data)
	if err != nil {
		markUnwritten(root)
		return nil, err
	}
	root.SetOrphan(false)
	root.SetDirty(false)
	res.Changed, res.Created = rr.Changed, rr.Created
	return res, nil
}

func markUnwritten(root *outline.Node) {
	root.SetOrphan(true)
	root.SetDirty(true)
}

func (c *Codec) render(ctx context.Context, root *outline.Node, s directives.Settings, dialect Dialect, diag *collector) (string, error) {
	w := newWriter(ctx, root, s, c.opts, dialect, diag)
	text, err := w.render()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCancelled, "write of %s cancelled", diag.report.File)
	}
	return text, nil
}

// Job names one derived file for WriteAll.
type Job struct {
	Root *outline.Node
	Path string
}

// WriteAll writes several derived files concurrently, at most
// Options.Concurrency at a time. Results are in job order; a job that
// failed has a nil result. The first error cancels the jobs not yet
// finished. Trees of different jobs must not share nodes.
func (c *Codec) WriteAll(ctx context.Context, jobs []Job) ([]*WriteResult, error) {
	results := make([]*WriteResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := c.Write(gctx, job.Root, job.Path)
			results[i] = res
			return err
		})
	}
	return results, g.Wait()
}

// Check reads the derived file in src into a fresh tree, renders it again
// with the settings recorded in its header and reports the difference. A
// file that does not round-trip counts one error.
func (c *Codec) Check(ctx context.Context, src io.Reader, path string) (*CheckResult, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path)
	}

	opts := c.opts
	opts.Index = outline.NewIndex()
	rc := &Codec{opts: opts, logger: c.logger}

	root := outline.New("", "", "")
	rr, input, err := rc.read(ctx, root, data, path)
	if err != nil {
		return nil, err
	}

	opts.Delims = rr.Header.Delims
	opts.Encoding = rr.Encoding
	opts.InitialComment = strings.Join(rr.Comments, "\n")
	rc.opts = opts
	s, err := opts.settings(root, path)
	if err != nil {
		return nil, err
	}
	s.Delims = rr.Header.Delims
	dialect := Thick
	if rr.Header.Thin {
		dialect = Thin
	}

	diag := newCollector(path, "checking", c.logger)
	diag.report = &rr.Report
	output, err := rc.render(ctx, root, s, dialect, diag)
	if err != nil {
		return nil, err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(input),
		B:        difflib.SplitLines(output),
		FromFile: path,
		ToFile:   path + " (rewritten)",
		Context:  3,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot diff")
	}
	if diff != "" {
		diag.errorf(0, "file does not round-trip")
	}
	return &CheckResult{Report: *diag.report, Header: rr.Header, Diff: diff}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func withNewline(s, newline string) string {
	if newline == "\n" {
		return s
	}
	return strings.ReplaceAll(s, "\n", newline)
}
