package atfile

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// lookupEncoding returns the encoding named by an IANA or MIME name. UTF-8
// maps to a nil encoding: text is used as is.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if sentinel.IsUTF8(name) {
		return nil, nil
	}
	for _, idx := range []*ianaindex.Index{ianaindex.IANA, ianaindex.MIME} {
		if enc, err := idx.Encoding(name); err == nil && enc != nil {
			return enc, nil
		}
	}
	return nil, errors.Newf(errors.ErrBadEncoding, "unknown encoding %q", name)
}

// bomEncoding names the encoding announced by a byte order mark at the
// start of data, or returns "".
func bomEncoding(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return "utf-8"
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be"
	}
	return ""
}

// decode converts data to text. A byte order mark overrides name; without
// one the encoding named in the @+leo header overrides name. It returns the
// text and the name of the encoding used.
func decode(data []byte, name string) (string, string, error) {
	if bom := bomEncoding(data); bom != "" {
		fallback := unicode.UTF8.NewDecoder()
		out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
		if err != nil {
			return "", bom, errors.Wrapf(err, errors.ErrBadEncoding, "cannot decode %s text", bom)
		}
		return string(out), bom, nil
	}
	if h := headerEncoding(data); h != "" {
		name = h
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", name, err
	}
	if enc == nil {
		return string(data), name, nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, errors.Wrapf(err, errors.ErrBadEncoding, "cannot decode %s text", name)
	}
	return string(out), name, nil
}

// headerEncoding scans the raw bytes for an @+leo line and returns its
// encoding field. Header lines are ASCII in every encoding the header can
// name, so the scan runs before decoding.
func headerEncoding(data []byte) string {
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if !strings.Contains(line, sentinel.StartLeo.Keyword()) {
			continue
		}
		h, err := sentinel.ParseHeader(line)
		if err != nil {
			return ""
		}
		return h.Encoding
	}
	return ""
}

// encode converts text to the named encoding. Characters the encoding
// cannot represent are an error.
func encode(text, name string) ([]byte, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(text), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBadEncoding, "text cannot be encoded as %s", name)
	}
	return out, nil
}
