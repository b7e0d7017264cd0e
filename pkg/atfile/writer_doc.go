package atfile

import (
	"strings"
	"unicode"

	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// Doc parts are written as comments wrapped at the page width. Lines that
// had to be split keep their trailing blank so the reader can join them.

func (w *writer) putStartDocLine(line string, kind directives.Kind) {
	w.docKind = kind
	keyword, directive := sentinel.StartAt.Keyword(), "@"
	if kind == directives.Doc {
		keyword, directive = sentinel.StartDoc.Keyword(), "@doc"
	}
	i := len(directive)
	j := whitespace.SkipWS(line, i)
	w.putSentinel(keyword + line[i:j])

	if w.delims.IsBlock() {
		w.putIndent(w.indent)
		w.buf.WriteString(w.delims.Start)
		w.newline()
	}
	if j < len(line) && line[j] != '\n' {
		w.putSentinel(sentinel.Nonl.Keyword())
		w.putDocLine(line[j:])
	}
}

func (w *writer) putDocLine(line string) {
	if whitespace.IsBlank(line) {
		w.putBlankDocLine()
		return
	}

	leading := w.indent
	if !w.delims.IsBlock() {
		leading += len(w.delims.Start) + 1
	}
	for i := 0; i < len(line); {
		word1 := i
		word2 := whitespace.SkipWS(line, i)
		i = word2
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		word3 := whitespace.SkipWS(line, i)
		i = word3

		if leading+word3-word1+w.pendingLen() >= w.pageWidth {
			if len(w.pending) > 0 {
				w.putPending(true)
				w.pending = append(w.pending, line[word2:word3])
			} else {
				w.pending = append(w.pending, line[word1:word3])
				w.putPending(true)
			}
		} else {
			w.pending = append(w.pending, line[word1:word3])
		}
	}
	w.putPending(false)
}

func (w *writer) pendingLen() int {
	n := 0
	for _, s := range w.pending {
		n += len(s)
	}
	return n
}

// putPending writes the pending words as one doc line. A split line keeps
// its trailing whitespace; the reader joins it with the next line.
func (w *writer) putPending(split bool) {
	s := strings.TrimSuffix(strings.Join(w.pending, ""), "\n")
	w.pending = w.pending[:0]
	if !split {
		s = strings.TrimRightFunc(s, unicode.IsSpace)
		if s == "" {
			return
		}
	}
	w.putIndent(w.indent)
	if !w.delims.IsBlock() {
		w.buf.WriteString(w.delims.Start)
		w.buf.WriteByte(' ')
	}
	w.buf.WriteString(s)
	w.newline()
}

func (w *writer) putBlankDocLine() {
	w.putPending(false)
	if !w.delims.IsBlock() {
		w.putIndent(w.indent)
		w.buf.WriteString(w.delims.Start)
		w.buf.WriteByte(' ')
	}
	w.newline()
}

func (w *writer) putEndDocLine() {
	w.putPending(false)
	if w.delims.IsBlock() {
		w.putIndent(w.indent)
		w.buf.WriteString(w.delims.End)
		w.newline()
	}
	if w.docKind == directives.Doc {
		w.putSentinel(sentinel.EndDoc.Keyword())
	} else {
		w.putSentinel(sentinel.EndAt.Keyword())
	}
}
