package atfile

import (
	"strings"

	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/replace"
	"github.com/arthur-debert/atfile/pkg/sentinel"
)

// Dialect selects the node sentinel format.
type Dialect int

const (
	// Thin node sentinels carry the node's gnx: "@+node:<gnx>:<headline>".
	Thin Dialect = iota
	// Thick node sentinels carry the 1-based child index of the node within
	// its parent: "@+node:<ordinal>::<headline>". The root is 0.
	Thick
)

func (d Dialect) String() string {
	if d == Thick {
		return "thick"
	}
	return "thin"
}

// ParseDialect parses "thin" or "thick".
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "thin":
		return Thin, nil
	case "thick":
		return Thick, nil
	}
	return Thin, errors.Newf(errors.ErrBadOption, "unknown dialect %q", s)
}

// Defaults used when an Options field is left zero.
const (
	DefaultTabWidth  = -4
	DefaultPageWidth = 132
	DefaultEncoding  = "utf-8"
	DefaultLanguage  = "plain"
)

// Options configure a Codec. Directives found in a root node's headline and
// body override Language, Delims, TabWidth, PageWidth, Encoding and Newline
// for the file rooted there.
type Options struct {
	// Language names the default language, which supplies comment
	// delimiters when neither Delims nor the path extension does.
	Language string
	// Delims, when set, are the default sentinel delimiters.
	Delims sentinel.Delims
	// Languages is the language table; nil means the built-in table.
	Languages *directives.Languages

	// TabWidth is negative for space indentation and positive for tabs.
	TabWidth  int
	PageWidth int
	// Newline is the line ending written: "\n", "\r\n" or "\r".
	Newline  string
	Encoding string

	Dialect Dialect

	// StripBlankLines writes whitespace-only body lines as bare newlines.
	StripBlankLines bool
	// ForceSingleLineComments writes "#" sentinels regardless of the
	// language.
	ForceSingleLineComments bool
	// ToStringOnly renders without touching the filesystem.
	ToStringOnly bool
	// InitialComment is written after the header as @comment sentinels,
	// one per line. A literal `\n` also separates lines.
	InitialComment string

	// Allocator assigns IDs to nodes written in the thin dialect and to
	// nodes created by reads. Nil means a Leo-style allocator.
	Allocator gnx.Allocator
	// Index resolves gnx references during reads. Nil means an index of
	// the tree being read into.
	Index *outline.Index

	// FS is used by ReadFile. Nil means the OS filesystem.
	FS filesystem.FS
	// Replacer installs written files. Nil means an FSReplacer on FS.
	Replacer replace.Replacer

	// Concurrency bounds WriteAll. Zero means 4.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.TabWidth == 0 {
		o.TabWidth = DefaultTabWidth
	}
	if o.PageWidth == 0 {
		o.PageWidth = DefaultPageWidth
	}
	if o.Newline == "" {
		o.Newline = "\n"
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	if o.Language == "" && o.Delims.Start == "" {
		o.Language = DefaultLanguage
	}
	if o.Languages == nil {
		o.Languages = directives.BuiltinLanguages()
	}
	if o.Allocator == nil {
		o.Allocator = gnx.NewLeoAllocator("")
	}
	if o.FS == nil {
		o.FS = filesystem.NewOS()
	}
	if o.Replacer == nil {
		o.Replacer = replace.New(o.FS)
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	return o
}

func (o Options) validate() error {
	if o.PageWidth < 0 {
		return errors.Newf(errors.ErrBadOption, "invalid page width %d", o.PageWidth)
	}
	switch o.Newline {
	case "\n", "\r\n", "\r":
	default:
		return errors.Newf(errors.ErrBadOption, "invalid newline %q", o.Newline)
	}
	if o.Delims.Start != "" {
		if err := o.Delims.Validate(); err != nil {
			return err
		}
	}
	if o.Language != "" {
		if _, ok := o.Languages.Lookup(o.Language); !ok {
			return errors.Newf(errors.ErrBadDelimiter, "unknown language %q", o.Language)
		}
	}
	if _, err := lookupEncoding(o.Encoding); err != nil {
		return err
	}
	return nil
}

// settings resolves the directive-driven settings for the file rooted at
// root and written to path.
func (o Options) settings(root *outline.Node, path string) (directives.Settings, error) {
	defaults := directives.Settings{
		Language:  o.Language,
		Delims:    o.Delims,
		TabWidth:  o.TabWidth,
		PageWidth: o.PageWidth,
		Encoding:  o.Encoding,
		Newline:   o.Newline,
	}
	s, err := directives.Resolve(root.Headline(), root.Body(), path, defaults, o.Languages)
	if err != nil {
		return s, err
	}
	if o.ForceSingleLineComments {
		s.Delims = sentinel.Delims{Start: "#"}
	}
	if _, err := lookupEncoding(s.Encoding); err != nil {
		return s, err
	}
	return s, nil
}

// targetPath returns path, or the path named by an @file or @thin root
// headline. An @thin headline forces the thin dialect.
func (o Options) targetPath(root *outline.Node, path string) (string, Dialect, error) {
	kind, named := directives.ParseFileHeadline(root.Headline())
	dialect := o.Dialect
	if kind == directives.AtThin {
		dialect = Thin
	}
	if path == "" {
		path = named
	}
	if path == "" && !o.ToStringOnly {
		return "", dialect, errors.Newf(errors.ErrInvalidInput,
			"node %q names no derived file", root.Headline())
	}
	return path, dialect, nil
}
