package atfile

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// slot is a child position: the i'th child of parent.
type slot struct {
	parent *outline.Node
	index  int
}

// writer renders one outline subtree as derived file text. A writer is
// used for a single session and is not safe for concurrent use.
type writer struct {
	ctx     context.Context
	root    *outline.Node
	dialect Dialect
	diag    *collector

	delims    sentinel.Delims
	language  string
	langs     *directives.Languages
	tabWidth  int
	pageWidth int
	encoding  string
	strip     bool
	forceHash bool
	comment   string

	alloc gnx.Allocator
	index *outline.Index

	buf     strings.Builder
	indent  int
	raw     bool
	pending []string
	docKind directives.Kind

	// expanded holds the child positions already written. Clones at other
	// positions are written again in full.
	expanded map[slot]bool
	// active counts the nodes being written, to catch a node containing
	// itself.
	active map[*outline.Node]int

	err error
}

func newWriter(ctx context.Context, root *outline.Node, s directives.Settings, o Options, dialect Dialect, diag *collector) *writer {
	return &writer{
		ctx:       ctx,
		root:      root,
		dialect:   dialect,
		diag:      diag,
		delims:    s.Delims,
		language:  s.Language,
		langs:     o.Languages,
		tabWidth:  s.TabWidth,
		pageWidth: s.PageWidth,
		encoding:  s.Encoding,
		strip:     o.StripBlankLines,
		forceHash: o.ForceSingleLineComments,
		comment:   o.InitialComment,
		alloc:     o.Allocator,
		index:     o.Index,
		expanded:  map[slot]bool{},
		active:    map[*outline.Node]int{},
	}
}

// render writes the whole file and returns its text with "\n" line
// endings. Structural problems are recorded in the collector.
func (w *writer) render() (string, error) {
	if w.cancelled() {
		return "", w.err
	}
	w.root.ClearVisitedInTree()

	w.putAtFirstLines(w.root.Body())
	w.putSentinel(sentinel.Header{
		Version:  sentinel.FormatVersion,
		Thin:     w.dialect == Thin,
		Encoding: w.encoding,
	}.Text())
	w.putInitialComment()

	saved := w.delims
	w.enter(w.root)
	w.putOpenNodeSentinel(w.root, 0, false)
	w.putBody(w.root)
	w.putCloseNodeSentinel(w.root, 0, false)
	w.leave(w.root)
	w.delims = saved

	w.putSentinel(sentinel.EndLeo.Keyword())
	w.putAtLastLines(w.root.Body())

	if w.err != nil {
		return "", w.err
	}
	w.warnAboutOrphans()
	return w.buf.String(), nil
}

func (w *writer) writeError(format string, args ...interface{}) {
	w.diag.errorf(0, format, args...)
}

func (w *writer) warnAboutOrphans() {
	for _, n := range w.root.Subtree() {
		if n.Visited() {
			continue
		}
		if directives.IsIgnored(n.Headline(), n.Body()) {
			w.writeError("@ignore node: %s", n.Headline())
		} else {
			w.writeError("orphan node: %s", n.Headline())
		}
	}
}

// cancelled records a cancelled context. Every put method checks it so the
// session unwinds without writing more.
func (w *writer) cancelled() bool {
	if w.err != nil {
		return true
	}
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return true
	}
	return false
}

// enter reports whether n may be written below the nodes being written.
func (w *writer) enter(n *outline.Node) bool {
	if w.active[n] > 0 {
		w.writeError("node contains itself: %s", n.Headline())
		return false
	}
	w.active[n]++
	return true
}

func (w *writer) leave(n *outline.Node) {
	w.active[n]--
}

// Output primitives.

func (w *writer) putIndent(n int) {
	w.buf.WriteString(whitespace.Make(n, w.tabWidth))
}

func (w *writer) newline() {
	w.buf.WriteByte('\n')
}

// putSentinel writes text as a sentinel line at the current indentation.
func (w *writer) putSentinel(text string) {
	w.putIndent(w.indent)
	w.buf.WriteString(sentinel.Format(text, w.delims))
	w.newline()
}

func (w *writer) putInitialComment() {
	if w.comment == "" {
		return
	}
	text := strings.ReplaceAll(w.comment, `\n`, "\n")
	text = strings.ReplaceAll(text, "@date", time.Now().Format(time.ANSIC))
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimRightFunc(line, unicode.IsSpace); line != "" {
			w.putSentinel(sentinel.Comment.Keyword() + " " + line)
		}
	}
}

// Node sentinels.

func (w *writer) ensureID(n *outline.Node) {
	if w.dialect != Thin || !n.ID().IsZero() {
		return
	}
	n.SetID(w.alloc.Next())
	if w.index != nil {
		w.index.Add(n)
	}
}

// nodeText returns the payload of a node sentinel. ordinal is the node's
// 1-based position within its parent, 0 for the root.
func (w *writer) nodeText(n *outline.Node, ordinal int) string {
	h := strings.ReplaceAll(n.Headline(), "\n", " ")
	if w.delims.IsBlock() {
		h = strings.ReplaceAll(h, w.delims.Start, "")
		h = strings.ReplaceAll(h, w.delims.End, "")
	}
	if w.dialect == Thick {
		return strconv.Itoa(ordinal) + "::" + h
	}
	w.ensureID(n)
	return n.ID().String() + ":" + h
}

func (w *writer) putOpenNodeSentinel(n *outline.Node, ordinal int, middle bool) {
	kind := sentinel.StartNode
	if middle {
		kind = sentinel.StartMiddle
	}
	w.putSentinel(kind.Keyword() + ":" + w.nodeText(n, ordinal))
}

func (w *writer) putCloseNodeSentinel(n *outline.Node, ordinal int, middle bool) {
	kind := sentinel.EndNode
	if middle {
		kind = sentinel.EndMiddle
	}
	w.putSentinel(kind.Keyword() + ":" + w.nodeText(n, ordinal))
}

// nestedFile reports, as an error, a derived file node found below the
// root outside @all. Its subtree belongs to its own file.
func (w *writer) nestedFile(n *outline.Node) bool {
	if n == w.root {
		return false
	}
	if kind, _ := directives.ParseFileHeadline(n.Headline()); kind == directives.NotAFile {
		return false
	}
	w.writeError("@file not valid in: %s", n.Headline())
	for _, d := range n.Subtree() {
		d.SetVisited()
	}
	return true
}

// Bodies.

// putBody writes the body of n, expanding @others, @all and section
// references and converting directives to sentinels.
func (w *writer) putBody(n *outline.Node) {
	n.SetVisited()
	s := n.Body()
	if w.strip {
		s = cleanLines(s)
	}
	trailingNewline := s == "" || strings.HasSuffix(s, "\n")
	if !trailingNewline {
		s += "\n"
	}

	inCode := true
	w.raw = false
	for i := 0; i < len(s); {
		if w.cancelled() {
			return
		}
		next := nextLine(s, i)
		line := s[i:next]
		kind := directives.KindOf(line, w.language)
		switch kind {
		case directives.None:
			if !inCode {
				w.putDocLine(line)
			} else if ok, n1, n2 := directives.FindSectionName(line, 0); ok && !w.raw {
				w.putRefLine(line, n1, n2, n)
			} else {
				w.putCodeLine(line)
			}
		case directives.At, directives.Doc:
			if !inCode {
				w.putEndDocLine()
			}
			w.putStartDocLine(line, kind)
			inCode = false
		case directives.C, directives.Code:
			if !inCode {
				w.putEndDocLine()
			}
			w.putDirective(line)
			inCode = true
		case directives.Others:
			if inCode {
				w.putAtOthersLine(line, n)
			} else {
				w.putDocLine(line)
			}
		case directives.All:
			if inCode {
				w.putAtAllLine(line, n)
			} else {
				w.putDocLine(line)
			}
		case directives.Raw:
			w.raw = true
			w.putSentinel("@@raw")
		case directives.EndRaw:
			w.raw = false
			w.putSentinel("@@end_raw")
		case directives.Misc:
			w.putDirective(line)
		}
		i = next
	}
	if !inCode {
		w.putEndDocLine()
	}
	if !trailingNewline {
		w.putSentinel(sentinel.Nonl.Keyword())
	}
}

// putCodeLine writes a body line at the current indentation. A line that
// would read back as a sentinel is preceded by @verbatim.
func (w *writer) putCodeLine(line string) {
	j := whitespace.SkipWS(line, 0)
	if strings.HasPrefix(line[j:], w.delims.Start+"@") {
		w.putSentinel(sentinel.Verbatim.Keyword())
	}
	if line != "\n" && !w.raw {
		w.putIndent(w.indent)
	}
	w.buf.WriteString(line)
	if !strings.HasSuffix(line, "\n") {
		w.newline()
	}
}

// putDirective writes a directive line as an "@@" sentinel. @delims,
// @language and @comment also change the delimiters of the sentinels that
// follow, up to the end of the enclosing node.
func (w *writer) putDirective(line string) {
	directive := strings.TrimSuffix(line, "\n")
	switch {
	case directives.MatchWord(directive, 0, "@delims"):
		w.putSentinel(directive + " ")
		fields := strings.Fields(directive[len("@delims"):])
		if len(fields) == 0 {
			w.writeError("bad @delims directive: %q", directive)
			return
		}
		end := ""
		if len(fields) > 1 {
			end = fields[1]
		}
		d, err := sentinel.NewDelims(fields[0], end)
		if err != nil {
			w.writeError("bad @delims directive: %q", directive)
			return
		}
		w.delims = d
	case directives.MatchWord(directive, 0, "@first"):
		w.putSentinel("@@first")
	case directives.MatchWord(directive, 0, "@last"):
		w.putSentinel("@@last")
	default:
		w.putSentinel("@" + directive)
		w.switchDelims(directive)
	}
}

// switchDelims applies the delimiters named by an @language or @comment
// line. Unknown languages leave the delimiters alone.
func (w *writer) switchDelims(directive string) {
	d, lang, ok := delimsForDirective(directive, w.langs)
	if lang != "" {
		w.language = lang
	}
	if ok && !w.forceHash {
		w.delims = d
	}
}

func delimsForDirective(directive string, langs *directives.Languages) (sentinel.Delims, string, bool) {
	switch {
	case directives.MatchWord(directive, 0, "@language"):
		fields := strings.Fields(directives.Arg(directive, "language"))
		if len(fields) == 0 {
			return sentinel.Delims{}, "", false
		}
		lang, ok := langs.Lookup(fields[0])
		if !ok {
			return sentinel.Delims{}, "", false
		}
		d, err := lang.SentinelDelims()
		return d, lang.Name, err == nil
	case directives.MatchWord(directive, 0, "@comment"):
		d, err := sentinel.Choose(directives.ParseCommentDelims(directives.Arg(directive, "comment")))
		return d, "", err == nil
	}
	return sentinel.Delims{}, "", false
}

// @first and @last.

// putAtFirstLines writes the text of the leading @first lines of s ahead of
// the header. Blank lines before the first @first are skipped, as the
// reader does when it completes the directives.
func (w *writer) putAtFirstLines(s string) {
	seen := false
	for i := 0; i < len(s); {
		next := nextLine(s, i)
		line := s[i:next]
		if !seen && whitespace.IsBlank(line) {
			i = next
			continue
		}
		if !directives.MatchWord(line, 0, "@first") {
			return
		}
		seen = true
		j := whitespace.SkipWS(line, len("@first"))
		w.buf.WriteString(strings.TrimSuffix(line[j:], "\n"))
		w.newline()
		i = next
	}
}

// putAtLastLines writes the text of the trailing @last lines of s after
// the @-leo sentinel.
func (w *writer) putAtLastLines(s string) {
	lines := splitLines(s)
	j := len(lines) - 1
	for j >= 0 {
		line := lines[j]
		if directives.MatchWord(line, 0, "@last") || whitespace.IsBlank(line) {
			j--
			continue
		}
		break
	}
	for _, line := range lines[j+1:] {
		if !directives.MatchWord(line, 0, "@last") {
			continue
		}
		k := whitespace.SkipWS(line, len("@last"))
		w.buf.WriteString(line[k:])
	}
}

// Helpers.

// nextLine returns the index just past the line of s starting at i.
func nextLine(s string, i int) int {
	if k := strings.IndexByte(s[i:], '\n'); k >= 0 {
		return i + k + 1
	}
	return len(s)
}

// splitLines splits s after each newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// cleanLines reduces whitespace-only lines to bare newlines.
func cleanLines(s string) string {
	lines := splitLines(s)
	for i, line := range lines {
		if !whitespace.IsBlank(line) {
			continue
		}
		if strings.HasSuffix(line, "\n") {
			lines[i] = "\n"
		} else {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "")
}
