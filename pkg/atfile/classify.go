package atfile

import (
	"io"
	"strings"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/sentinel"
)

// LineInfo describes one line of a derived file.
type LineInfo struct {
	Number  int
	Kind    sentinel.Kind
	Payload string
	Text    string
}

// Classify reports the sentinel kind of every line of the derived file in
// src. Delimiter changes are followed the way a read follows them, so the
// result shows what a read would see without building a tree. Lines before
// the header and after @-leo are NotASentinel.
func (c *Codec) Classify(src io.Reader) (sentinel.Header, []LineInfo, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return sentinel.Header{}, nil, errors.Wrap(err, errors.ErrFileRead, "cannot read input")
	}
	text, _, err := decode(data, c.opts.Encoding)
	if err != nil {
		return sentinel.Header{}, nil, err
	}
	lines := splitLines(normalizeNewlines(text))
	hdr, header, err := sentinel.FindHeader(lines)
	if err != nil {
		return sentinel.Header{}, nil, errors.Wrap(err, errors.ErrBadHeader, "cannot classify input")
	}

	out := make([]LineInfo, 0, len(lines))
	for i := 0; i <= hdr; i++ {
		out = append(out, LineInfo{Number: i + 1, Text: strings.TrimSuffix(lines[i], "\n")})
	}
	out[hdr].Kind = sentinel.StartLeo

	d := header.Delims
	var saved []sentinel.Delims
	done := false
	for i := hdr + 1; i < len(lines); i++ {
		info := LineInfo{Number: i + 1, Text: strings.TrimSuffix(lines[i], "\n")}
		if !done {
			l := sentinel.Classify(lines[i], d)
			info.Kind, info.Payload = l.Kind, l.Payload
			switch l.Kind {
			case sentinel.StartNode, sentinel.StartMiddle:
				saved = append(saved, d)
			case sentinel.EndNode, sentinel.EndMiddle:
				if n := len(saved); n > 0 {
					d, saved = saved[n-1], saved[:n-1]
				}
			case sentinel.EndLeo:
				done = true
			case sentinel.ChangeDelims:
				if fields := strings.Fields(l.Payload); len(fields) > 0 {
					end := ""
					if len(fields) > 1 {
						end = fields[1]
					}
					if nd, err := sentinel.NewDelims(fields[0], end); err == nil {
						d = nd
					}
				}
			case sentinel.Directive:
				if nd, _, ok := delimsForDirective("@"+l.Payload, c.opts.Languages); ok && !c.opts.ForceSingleLineComments {
					d = nd
				}
			case sentinel.AfterRef, sentinel.Verbatim:
				out = append(out, info)
				if i+1 < len(lines) {
					i++
					out = append(out, LineInfo{Number: i + 1, Text: strings.TrimSuffix(lines[i], "\n")})
				}
				continue
			}
		}
		out = append(out, info)
	}
	return header, out, nil
}
