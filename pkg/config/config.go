package config

import (
	"io/fs"
	"strconv"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/arthur-debert/atfile/pkg/replace"
	"github.com/pelletier/go-toml/v2"
)

// Config is the complete atfile configuration.
type Config struct {
	Codec     CodecConfig               `koanf:"codec" toml:"codec"`
	Batch     BatchConfig               `koanf:"batch" toml:"batch"`
	Languages map[string]LanguageConfig `koanf:"languages" toml:"languages,omitempty"`
}

// CodecConfig holds the settings of derived file reads and writes.
type CodecConfig struct {
	TabWidth                int    `koanf:"tab_width" toml:"tab_width"`
	PageWidth               int    `koanf:"page_width" toml:"page_width"`
	OutputNewline           string `koanf:"output_newline" toml:"output_newline"`
	Encoding                string `koanf:"encoding" toml:"encoding"`
	Dialect                 string `koanf:"dialect" toml:"dialect"`
	Language                string `koanf:"language" toml:"language"`
	StripBlankLines         bool   `koanf:"strip_blank_lines" toml:"strip_blank_lines"`
	ForceSingleLineComments bool   `koanf:"force_single_line_comments" toml:"force_single_line_comments"`
	IgnoreLineEndings       bool   `koanf:"ignore_line_endings" toml:"ignore_line_endings"`
	FileMode                string `koanf:"file_mode" toml:"file_mode"`
	InitialComment          string `koanf:"initial_comment" toml:"initial_comment"`
	GnxStyle                string `koanf:"gnx_style" toml:"gnx_style"`
	GnxUser                 string `koanf:"gnx_user" toml:"gnx_user"`
}

// BatchConfig holds the settings of multi-file writes.
type BatchConfig struct {
	Concurrency int `koanf:"concurrency" toml:"concurrency"`
}

// LanguageConfig adds a language or changes a built-in one. Delims uses
// the @comment syntax.
type LanguageConfig struct {
	Delims     string   `koanf:"delims" toml:"delims,omitempty"`
	Extensions []string `koanf:"extensions" toml:"extensions,omitempty"`
}

// Validate checks the values that can be checked without a filesystem.
func (c *Config) Validate() error {
	if c.Codec.TabWidth == 0 {
		return errors.New(errors.ErrBadOption, "codec.tab_width must not be 0")
	}
	if c.Codec.PageWidth <= 0 {
		return errors.Newf(errors.ErrBadOption, "codec.page_width must be positive, got %d", c.Codec.PageWidth)
	}
	if _, err := directives.NewlineFor(c.Codec.OutputNewline); err != nil {
		return err
	}
	if _, err := atfile.ParseDialect(c.Codec.Dialect); err != nil {
		return err
	}
	if _, err := gnx.NewAllocator(c.Codec.GnxStyle, c.Codec.GnxUser); err != nil {
		return err
	}
	if _, err := c.Codec.Perm(); err != nil {
		return err
	}
	if c.Batch.Concurrency < 1 {
		return errors.Newf(errors.ErrBadOption, "batch.concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	for name, lang := range c.Languages {
		if lang.Delims == "" {
			continue
		}
		l := directives.Language{Name: name, Delims: lang.Delims}
		if _, err := l.SentinelDelims(); err != nil {
			return err
		}
	}
	return nil
}

// Perm returns the permissions of newly created derived files, parsed from
// the octal file_mode. An empty file_mode means 0644.
func (c CodecConfig) Perm() (fs.FileMode, error) {
	if c.FileMode == "" {
		return 0644, nil
	}
	mode, err := strconv.ParseUint(c.FileMode, 8, 32)
	if err != nil || mode > 0777 {
		return 0, errors.Newf(errors.ErrBadOption, "codec.file_mode must be an octal permission such as 0644, got %q", c.FileMode)
	}
	return fs.FileMode(mode), nil
}

// LanguageTable returns the built-in languages extended by the configured
// ones.
func (c *Config) LanguageTable() *directives.Languages {
	langs := directives.BuiltinLanguages()
	if len(c.Languages) == 0 {
		return langs
	}
	extra := make(map[string]directives.Language, len(c.Languages))
	for name, lang := range c.Languages {
		extra[name] = directives.Language{Delims: lang.Delims, Extensions: lang.Extensions}
	}
	langs.Merge(extra)
	return langs
}

// CodecOptions builds codec options writing through fsys.
func (c *Config) CodecOptions(fsys filesystem.FS) (atfile.Options, error) {
	if err := c.Validate(); err != nil {
		return atfile.Options{}, err
	}
	newline, _ := directives.NewlineFor(c.Codec.OutputNewline)
	dialect, _ := atfile.ParseDialect(c.Codec.Dialect)
	alloc, _ := gnx.NewAllocator(c.Codec.GnxStyle, c.Codec.GnxUser)
	perm, _ := c.Codec.Perm()

	return atfile.Options{
		Language:                c.Codec.Language,
		Languages:               c.LanguageTable(),
		TabWidth:                c.Codec.TabWidth,
		PageWidth:               c.Codec.PageWidth,
		Newline:                 newline,
		Encoding:                c.Codec.Encoding,
		Dialect:                 dialect,
		StripBlankLines:         c.Codec.StripBlankLines,
		ForceSingleLineComments: c.Codec.ForceSingleLineComments,
		InitialComment:          c.Codec.InitialComment,
		Allocator:               alloc,
		FS:                      fsys,
		Replacer:                replace.New(fsys, replace.IgnoreLineEndings(c.Codec.IgnoreLineEndings), replace.WithPerm(perm)),
		Concurrency:             c.Batch.Concurrency,
	}, nil
}

// TOML encodes the configuration in the format of the config file.
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode configuration")
	}
	return data, nil
}
