package atfile

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// frame is an open region of the derived file. Node and middle frames save
// the state of the enclosing node, restored when the region closes.
type frame struct {
	closer sentinel.Kind

	node   *outline.Node
	out    []byte
	indent int
	delims sentinel.Delims
}

// reader parses one derived file into an outline subtree. Bodies are
// collected aside and applied only when the pass completes, and every
// structural change is logged so a cancelled read can be undone.
type reader struct {
	ctx       context.Context
	root      *outline.Node
	diag      *collector
	thin      bool
	langs     *directives.Languages
	forceHash bool
	tabWidth  int
	alloc     gnx.Allocator
	index     *outline.Index

	lines  []string
	pos    int
	lineNo int

	delims     sentinel.Delims
	stack      []frame
	node       *outline.Node
	out        []byte
	docOut     []byte
	inCode     bool
	raw        bool
	indent     int
	cloneCount int
	rootSeen   bool
	done       bool

	firstLines []string
	lastLines  []string
	// leading and trailing are the lines outside the sentinels that no
	// @first or @last directive of the root claimed.
	leading  []string
	trailing []string
	comments   []string

	bodies       map[*outline.Node]string
	cursors      map[*outline.Node]*cursor
	placeholders map[*outline.Node]string
	undo         []func()
}

func newReader(ctx context.Context, root *outline.Node, h sentinel.Header, tabWidth int, o Options, diag *collector) *reader {
	index := o.Index
	if index == nil {
		index = outline.IndexTree(root)
	}
	return &reader{
		ctx:          ctx,
		root:         root,
		diag:         diag,
		thin:         h.Thin,
		langs:        o.Languages,
		forceHash:    o.ForceSingleLineComments,
		tabWidth:     tabWidth,
		alloc:        o.Allocator,
		index:        index,
		delims:       h.Delims,
		inCode:       true,
		bodies:       map[*outline.Node]string{},
		cursors:      map[*outline.Node]*cursor{},
		placeholders: map[*outline.Node]string{},
	}
}

func (r *reader) errorf(format string, args ...interface{}) {
	r.diag.errorf(r.lineNo, format, args...)
}

func (r *reader) warnf(format string, args ...interface{}) {
	r.diag.warnf(r.lineNo, format, args...)
}

// read parses lines, the complete file split after each "\n", whose
// header is at index hdr. It returns only a context error; structural
// problems go to the collector.
func (r *reader) read(lines []string, hdr int) error {
	r.root.ClearVisitedInTree()
	r.lines = lines
	r.pos = hdr + 1
	r.firstLines = lines[:hdr]
	r.stack = []frame{{closer: sentinel.EndLeo}}

	for r.pos < len(r.lines) && !r.done {
		if err := r.ctx.Err(); err != nil {
			r.rollback()
			return err
		}
		s := r.lines[r.pos]
		r.pos++
		r.lineNo = r.pos
		r.readLine(s)
	}
	if !r.done {
		r.lineNo = len(r.lines)
		r.errorf("unexpected end of file; expecting %s sentinel", r.stack[len(r.stack)-1].closer.Keyword())
		for len(r.stack) > 0 {
			r.closeTop()
		}
	}
	if !r.rootSeen {
		r.errorf("no node sentinel for the root node")
	}
	r.apply()
	return nil
}

func (r *reader) readLine(s string) {
	l := sentinel.Classify(s, r.delims)
	switch l.Kind {
	case sentinel.NotASentinel:
		r.readNormalLine(s)
	case sentinel.StartNode:
		r.readStartNode(l, false)
	case sentinel.StartMiddle:
		r.readStartNode(l, true)
	case sentinel.EndNode, sentinel.EndMiddle, sentinel.EndOthers, sentinel.EndAll,
		sentinel.EndAt, sentinel.EndDoc:
		r.pop(l.Kind)
	case sentinel.EndLeo:
		r.pop(sentinel.EndLeo)
		r.lastLines = r.lines[r.pos:]
		r.done = true
	case sentinel.StartOthers:
		r.out = append(r.out, l.Gap+"@others\n"...)
		r.push(sentinel.EndOthers)
	case sentinel.StartAll:
		r.out = append(r.out, l.Gap+"@all\n"...)
		r.push(sentinel.EndAll)
	case sentinel.StartAt:
		r.readStartDoc(l, "@", sentinel.EndAt)
	case sentinel.StartDoc:
		r.readStartDoc(l, "@doc", sentinel.EndDoc)
	case sentinel.Directive:
		r.readDirective(l)
	case sentinel.ChangeDelims:
		r.readDelims(l)
	case sentinel.Nl:
		r.emit("\n")
	case sentinel.Nonl:
		r.readNonl()
	case sentinel.SectionRef:
		r.out = append(r.out, l.Gap+l.Payload...)
	case sentinel.AfterRef:
		if s, ok := r.nextLine(); ok {
			r.out = append(r.out, s...)
		}
	case sentinel.Verbatim:
		if s, ok := r.nextLine(); ok {
			if !r.raw {
				s = whitespace.RemoveLeading(s, r.indent, r.tabWidth)
			}
			r.out = append(r.out, s...)
		}
	case sentinel.Clone:
		n, err := strconv.Atoi(strings.TrimSpace(l.Payload))
		if err != nil || n < 1 {
			r.errorf("invalid count in @clone sentinel: %q", l.Payload)
			return
		}
		r.cloneCount = n
	case sentinel.Comment:
		r.comments = append(r.comments, strings.TrimPrefix(l.Payload, " "))
	case sentinel.StartLeo:
		r.errorf("ignoring unexpected @+leo sentinel")
	}
}

// nextLine consumes the line following a sentinel that announces it.
func (r *reader) nextLine() (string, bool) {
	if r.pos >= len(r.lines) {
		r.errorf("unexpected end of file after sentinel")
		return "", false
	}
	s := r.lines[r.pos]
	r.pos++
	r.lineNo = r.pos
	return s, true
}

// emit appends text to the code or doc buffer, whichever is active.
func (r *reader) emit(text string) {
	if r.inCode {
		r.out = append(r.out, text...)
	} else {
		r.docOut = append(r.docOut, text...)
	}
}

func (r *reader) readNormalLine(s string) {
	if r.inCode {
		if !r.raw {
			s = whitespace.RemoveLeading(s, r.indent, r.tabWidth)
		}
		r.out = append(r.out, s...)
		return
	}

	var i int
	if r.delims.IsBlock() {
		i = whitespace.SkipIndent(s, 0, r.indent, r.tabWidth)
	} else {
		i = whitespace.SkipWS(s, 0)
		if strings.HasPrefix(s[i:], r.delims.Start) {
			i += len(r.delims.Start)
			if i < len(s) && s[i] == ' ' {
				i++
			}
		}
	}
	line := strings.TrimSuffix(s[i:], "\n")
	if line == strings.TrimRightFunc(line, unicode.IsSpace) {
		r.docOut = append(r.docOut, line+"\n"...)
	} else {
		// A split doc line: the writer kept its trailing blank.
		r.docOut = append(r.docOut, line...)
	}
}

func (r *reader) readNonl() {
	buf := &r.out
	if !r.inCode {
		buf = &r.docOut
	}
	if n := len(*buf); n > 0 && (*buf)[n-1] == '\n' {
		*buf = (*buf)[:n-1]
		return
	}
	r.errorf("unexpected @nonl sentinel")
}

func (r *reader) readStartDoc(l sentinel.Line, tag string, closer sentinel.Kind) {
	j := whitespace.SkipWS(l.Payload, 0)
	r.docOut = append(r.docOut[:0], tag+l.Payload[:j]+"\n"...)
	r.inCode = false
	r.push(closer)
}

// readLastDocLine moves the doc part collected since @+at or @+doc into
// the body, removing the comment delimiters the writer added.
func (r *reader) readLastDocLine(tag string) {
	s := string(r.docOut)
	r.docOut = r.docOut[:0]
	if !strings.HasPrefix(s, tag) {
		r.errorf("missing start of doc part")
		return
	}
	s = s[len(tag):]
	for s != "" && (s[0] == ' ' || s[0] == '\t') {
		tag += s[:1]
		s = s[1:]
	}
	if r.delims.IsBlock() {
		s = strings.TrimPrefix(s, "\n")
		if !strings.HasPrefix(s, r.delims.Start) {
			r.errorf("missing open block comment in doc part")
			return
		}
		s = strings.TrimSuffix(s[len(r.delims.Start):], "\n")
		if !strings.HasSuffix(s, r.delims.End) {
			r.errorf("missing close block comment in doc part")
			return
		}
		s = s[:len(s)-len(r.delims.End)]
	}
	r.out = append(r.out, tag+s...)
}

func (r *reader) readDirective(l sentinel.Line) {
	p := l.Payload
	switch {
	case directives.MatchWord(p, 0, "raw"):
		r.raw = true
	case directives.MatchWord(p, 0, "end_raw"):
		r.raw = false
	}
	r.emit("@" + p + "\n")

	d, _, ok := delimsForDirective("@"+p, r.langs)
	if ok && !r.forceHash {
		r.delims = d
	}
}

func (r *reader) readDelims(l sentinel.Line) {
	r.emit(sentinel.ChangeDelims.Keyword() + strings.TrimRightFunc(l.Payload, unicode.IsSpace) + "\n")

	fields := strings.Fields(l.Payload)
	if len(fields) == 0 {
		r.errorf("bad @delims sentinel")
		return
	}
	end := ""
	if len(fields) > 1 {
		end = fields[1]
	}
	d, err := sentinel.NewDelims(fields[0], end)
	if err != nil {
		r.errorf("bad @delims sentinel: %v", err)
		return
	}
	r.delims = d
}

// Region stack.

func (r *reader) push(closer sentinel.Kind) {
	r.stack = append(r.stack, frame{closer: closer})
}

func (r *reader) readStartNode(l sentinel.Line, middle bool) {
	closer := sentinel.EndNode
	if middle {
		closer = sentinel.EndMiddle
	}
	parent := r.node
	r.stack = append(r.stack, frame{
		closer: closer,
		node:   r.node,
		out:    r.out,
		indent: r.indent,
		delims: r.delims,
	})
	r.out = nil
	r.indent = whitespace.Width(l.Indent, r.tabWidth)
	r.node = r.resolveNode(parent, l.Payload, middle)
	r.node.SetVisited()
}

// pop closes the innermost region, which should be closed by kind. When a
// closer is missing, the regions above the matching one are closed with a
// single error. A closer that matches no open region is ignored.
func (r *reader) pop(kind sentinel.Kind) {
	top := len(r.stack) - 1
	if top < 0 {
		r.errorf("ignoring %s sentinel after @-leo", kind.Keyword())
		return
	}
	if r.stack[top].closer == kind {
		r.closeTop()
		return
	}
	for k := top - 1; k >= 0; k-- {
		if r.stack[k].closer != kind {
			continue
		}
		r.errorf("expecting %s sentinel, found %s", r.stack[top].closer.Keyword(), kind.Keyword())
		for len(r.stack) > k {
			r.closeTop()
		}
		return
	}
	r.errorf("ignoring unexpected %s sentinel; expecting %s", kind.Keyword(), r.stack[top].closer.Keyword())
}

func (r *reader) closeTop() {
	top := len(r.stack) - 1
	f := r.stack[top]
	r.stack = r.stack[:top]

	switch f.closer {
	case sentinel.EndNode, sentinel.EndMiddle:
		// Middle sentinels bracket a reference; the text inside belongs
		// to the referenced node.
		if f.closer == sentinel.EndNode {
			r.bodies[r.node] = string(r.out)
		}
		r.node, r.out, r.indent, r.delims = f.node, f.out, f.indent, f.delims
		r.raw = false
	case sentinel.EndAt:
		r.readLastDocLine("@")
		r.inCode = true
	case sentinel.EndDoc:
		r.readLastDocLine("@doc")
		r.inCode = true
	}
}

// Applying results.

func (r *reader) apply() {
	r.leading, r.trailing = r.firstLines, r.lastLines
	if body, ok := r.bodies[r.root]; ok {
		body, r.leading = completeFirstDirectives(body, r.firstLines)
		body, r.trailing = completeLastDirectives(body, r.lastLines)
		r.bodies[r.root] = body
	}
	if len(r.leading) > 0 {
		r.diag.warnf(0, "%d lines before the header have no @first directive; kept as @first", len(r.leading))
	}
	if len(r.trailing) > 0 {
		r.diag.warnf(0, "%d lines after @-leo have no @last directive; kept as @last", len(r.trailing))
	}
	for n, body := range r.bodies {
		n.SetBody(body)
	}
	for ph, where := range r.placeholders {
		r.diag.errorf(0, "missing node sentinel for %s", where)
		ph.SetVisited()
	}
}

// rollback undoes the structural changes of a cancelled read.
func (r *reader) rollback() {
	for i := len(r.undo) - 1; i >= 0; i-- {
		r.undo[i]()
	}
	r.undo = nil
	r.root.ClearVisitedInTree()
}

// orphans returns the nodes of the tree the file did not mention.
func (r *reader) orphans() []*outline.Node {
	var out []*outline.Node
	for _, n := range r.root.Subtree() {
		if !n.Visited() {
			out = append(out, n)
		}
	}
	return out
}

// completeFirstDirectives appends the @first lines found before the header
// to the leading @first directives of the root body. Lines left over become
// new @first directives after the completed ones and are returned.
func completeFirstDirectives(body string, first []string) (string, []string) {
	lines := splitLines(body)
	j, at := 0, 0
	for k, line := range lines {
		if j >= len(first) {
			break
		}
		if j == 0 && whitespace.IsBlank(line) {
			continue
		}
		if !directives.MatchWord(line, 0, "@first") {
			break
		}
		lines[k] = completeDirective("@first", first[j], line)
		j++
		at = k + 1
	}
	extra := first[j:]
	if len(extra) == 0 {
		return strings.Join(lines, ""), nil
	}
	lines = slices.Insert(lines, at, newDirectives("@first", extra)...)
	return strings.Join(lines, ""), extra
}

// completeLastDirectives appends the lines following @-leo to the trailing
// @last directives of the root body, pairing them from the end. Lines left
// over become new @last directives ahead of the completed ones and are
// returned.
func completeLastDirectives(body string, last []string) (string, []string) {
	lines := splitLines(body)
	j := len(last) - 1
	at := len(lines)
	found := false
	for k := len(lines) - 1; k >= 0 && j >= 0; k-- {
		line := lines[k]
		if !found && whitespace.IsBlank(line) {
			continue
		}
		if !directives.MatchWord(line, 0, "@last") {
			break
		}
		found = true
		lines[k] = completeDirective("@last", last[j], line)
		j--
		at = k
	}
	extra := last[:j+1]
	if len(extra) == 0 {
		return strings.Join(lines, ""), nil
	}
	if at > 0 && !strings.HasSuffix(lines[at-1], "\n") {
		lines[at-1] += "\n"
	}
	lines = slices.Insert(lines, at, newDirectives("@last", extra)...)
	return strings.Join(lines, ""), extra
}

func newDirectives(tag string, texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = completeDirective(tag, text, "\n")
	}
	return out
}

func completeDirective(tag, text, line string) string {
	s := strings.TrimRightFunc(tag+" "+text, unicode.IsSpace)
	if strings.HasSuffix(line, "\n") {
		s += "\n"
	}
	return s
}
