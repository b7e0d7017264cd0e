package sentinel

import (
	"strings"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// FormatVersion is the version written into new headers.
const FormatVersion = "5"

const (
	versionTag  = "-ver="
	thinTag     = "-thin"
	encodingTag = "-encoding="
)

// Header is the decoded @+leo line. The delimiters a file is read with
// come from its header, not from the reader's configuration.
type Header struct {
	Delims   Delims
	Version  string
	Thin     bool
	Encoding string
}

// Text returns the header sentinel text, e.g. "@+leo-ver=5-thin". The
// encoding field is written only for encodings other than UTF-8.
func (h Header) Text() string {
	var b strings.Builder
	b.WriteString(StartLeo.Keyword())
	b.WriteString(versionTag)
	if h.Version == "" {
		b.WriteString(FormatVersion)
	} else {
		b.WriteString(h.Version)
	}
	if h.Thin {
		b.WriteString(thinTag)
	}
	if h.Encoding != "" && !IsUTF8(h.Encoding) {
		b.WriteString(encodingTag)
		b.WriteString(h.Encoding)
		b.WriteString(",.")
	}
	return b.String()
}

// ParseHeader decodes an @+leo line. The opening delimiter is everything
// between the leading whitespace and "@+leo"; the closing delimiter is the
// trailing non-blank text after the fields.
func ParseHeader(s string) (Header, error) {
	s = trimNewline(s)
	tag := StartLeo.Keyword()

	j := whitespace.SkipWS(s, 0)
	i := strings.Index(s[j:], tag)
	if i < 0 {
		return Header{}, errors.New(errors.ErrBadHeader, "missing @+leo sentinel")
	}
	i += j
	if i == j {
		return Header{}, errors.New(errors.ErrBadHeader, "no comment delimiter before @+leo")
	}
	h := Header{}
	start := s[j:i]
	i += len(tag)

	if !strings.HasPrefix(s[i:], versionTag) {
		return Header{}, errors.Newf(errors.ErrBadHeader, "unsupported derived file format: %q", s)
	}
	i += len(versionTag)
	k := i
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if k == i {
		return Header{}, errors.Newf(errors.ErrBadHeader, "missing version in %q", s)
	}
	h.Version = s[k:i]

	if strings.HasPrefix(s[i:], thinTag) {
		h.Thin = true
		i += len(thinTag)
	}

	if strings.HasPrefix(s[i:], encodingTag) {
		i += len(encodingTag)
		if e := strings.Index(s[i:], ",."); e >= 0 {
			h.Encoding = s[i : i+e]
			i += e + 2
		} else if e := strings.Index(s[i:], "."); e >= 0 {
			h.Encoding = s[i : i+e]
			i += e + 1
		} else {
			return Header{}, errors.Newf(errors.ErrBadHeader, "unterminated encoding field in %q", s)
		}
		if h.Encoding == "" {
			return Header{}, errors.Newf(errors.ErrBadHeader, "empty encoding field in %q", s)
		}
	}

	end := strings.TrimSpace(s[i:])
	if strings.ContainsAny(end, " \t") {
		return Header{}, errors.Newf(errors.ErrBadHeader, "unexpected text after @+leo fields: %q", end)
	}
	d, err := NewDelims(start, end)
	if err != nil {
		return Header{}, err
	}
	h.Delims = d
	return h, nil
}

// FindHeader returns the index of the first line holding an @+leo
// sentinel and its decoded header. Lines before it are @first lines.
func FindHeader(lines []string) (int, Header, error) {
	for i, line := range lines {
		if strings.Contains(line, StartLeo.Keyword()) {
			h, err := ParseHeader(line)
			return i, h, err
		}
	}
	return -1, Header{}, errors.New(errors.ErrBadHeader, "no @+leo sentinel found")
}

// IsUTF8 reports whether name spells the UTF-8 encoding.
func IsUTF8(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8":
		return true
	}
	return false
}
