package directives

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/sentinel"
)

// Settings are the directive-driven values a codec session runs with.
type Settings struct {
	Language  string
	Delims    sentinel.Delims
	TabWidth  int
	PageWidth int
	Encoding  string
	Newline   string
}

// Resolve computes the settings for a derived file rooted at a node with
// the given headline and body, written to path. Precedence, lowest first:
// defaults, the language implied by the path extension, then directives
// found at the start of headline or body lines. An @comment directive
// overrides the delimiters of any @language directive. For each directive
// the first occurrence wins.
func Resolve(headline, body, path string, defaults Settings, langs *Languages) (Settings, error) {
	s := defaults
	if langs == nil {
		langs = BuiltinLanguages()
	}

	if s.Delims.Start == "" && s.Language != "" {
		if err := applyLanguage(&s, s.Language, langs); err != nil {
			return s, err
		}
	}
	if lang, ok := langs.ForPath(path); ok {
		if err := applyLanguage(&s, lang.Name, langs); err != nil {
			return s, err
		}
	}

	seen := map[string]bool{}
	var comment string
	for _, line := range strings.Split(headline+"\n"+body, "\n") {
		if !strings.HasPrefix(line, "@") {
			continue
		}
		for _, name := range []string{"language", "comment", "tabwidth", "pagewidth", "encoding", "lineending"} {
			if !MatchWord(line, 1, name) || seen[name] {
				continue
			}
			seen[name] = true
			arg := Arg(line, name)
			switch name {
			case "language":
				fields := strings.Fields(arg)
				if len(fields) == 0 {
					return s, errors.New(errors.ErrBadDelimiter, "@language without a language name")
				}
				if err := applyLanguage(&s, fields[0], langs); err != nil {
					return s, err
				}
			case "comment":
				comment = arg
			case "tabwidth":
				n, err := strconv.Atoi(arg)
				if err != nil || n == 0 {
					return s, errors.Newf(errors.ErrBadOption, "invalid @tabwidth %q", arg)
				}
				s.TabWidth = n
			case "pagewidth":
				n, err := strconv.Atoi(arg)
				if err != nil || n <= 0 {
					return s, errors.Newf(errors.ErrBadOption, "invalid @pagewidth %q", arg)
				}
				s.PageWidth = n
			case "encoding":
				if arg == "" {
					return s, errors.New(errors.ErrBadEncoding, "@encoding without an encoding name")
				}
				s.Encoding = arg
			case "lineending":
				nl, err := NewlineFor(arg)
				if err != nil {
					return s, err
				}
				s.Newline = nl
			}
		}
	}

	if comment != "" {
		d, err := sentinel.Choose(ParseCommentDelims(comment))
		if err != nil {
			return s, err
		}
		s.Delims = d
	}
	if err := s.Delims.Validate(); err != nil {
		return s, errors.Wrapf(err, errors.ErrBadDelimiter, "no comment delimiters for %s", path)
	}
	return s, nil
}

func applyLanguage(s *Settings, name string, langs *Languages) error {
	lang, ok := langs.Lookup(name)
	if !ok {
		return errors.Newf(errors.ErrBadDelimiter, "unknown language %q", name)
	}
	d, err := lang.SentinelDelims()
	if err != nil {
		return err
	}
	s.Language = lang.Name
	s.Delims = d
	return nil
}

// NewlineFor maps a line ending name to its text.
func NewlineFor(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nl", "lf":
		return "\n", nil
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	case "", "platform":
		if runtime.GOOS == "windows" {
			return "\r\n", nil
		}
		return "\n", nil
	}
	return "", errors.Newf(errors.ErrBadOption, "unknown line ending %q", name)
}
