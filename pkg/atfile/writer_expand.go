package atfile

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/atfile/pkg/directives"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// cloneRun returns the number of consecutive children of parent, starting
// at i, that are the same node as the i'th child.
func cloneRun(parent *outline.Node, i int) int {
	n := parent.Child(i)
	k := i + 1
	for k < parent.NumChildren() && parent.Child(k) == n {
		k++
	}
	return k - i
}

// putClone writes an @clone sentinel for a run of identical siblings
// starting at i and marks the whole run written.
func (w *writer) putClone(parent *outline.Node, i int) {
	run := cloneRun(parent, i)
	if run > 1 {
		w.putSentinel(fmt.Sprintf("%s %d", sentinel.Clone.Keyword(), run))
	}
	for k := i; k < i+run; k++ {
		w.expanded[slot{parent, k}] = true
	}
}

// putLeadInSentinel handles the text of line between i and j, the start of
// an @others, @all or section reference. Whitespace only is returned so the
// sentinel can record its spelling. Other text is written as a line of its
// own followed by @nonl.
func (w *writer) putLeadInSentinel(line string, i, j, delta int) string {
	k := whitespace.SkipWS(line, i)
	if k == j {
		return line[i:j]
	}
	if i < j {
		w.putIndent(w.indent)
		w.buf.WriteString(line[i:j])
		w.newline()
		w.indent += delta
		w.putSentinel(sentinel.Nonl.Keyword())
		w.indent -= delta
	}
	return ""
}

// leadSentinel returns "@<ws>keyword" or "keyword". keyword starts with
// '@'.
func leadSentinel(leadingWs, keyword string) string {
	if leadingWs == "" {
		return keyword
	}
	return "@" + leadingWs + keyword
}

// refSentinel returns "@<ws><<name>>", with no second '@' after the gap.
func refSentinel(leadingWs, name string) string {
	return "@" + leadingWs + name
}

// @others.

// inAtOthers reports whether the i'th child of parent is written by an
// @others directive of parent.
func (w *writer) inAtOthers(parent *outline.Node, i int) bool {
	if w.expanded[slot{parent, i}] {
		return false
	}
	c := parent.Child(i)
	if directives.IsSectionDefinition(c.Headline()) {
		return false
	}
	return !directives.IsIgnored(c.Headline(), c.Body())
}

func (w *writer) putAtOthersLine(line string, n *outline.Node) {
	j, delta := whitespace.SkipLeading(line, 0, w.tabWidth)
	leadingWs := w.putLeadInSentinel(line, 0, j, delta)

	w.indent += delta
	w.putSentinel(leadSentinel(leadingWs, sentinel.StartOthers.Keyword()))
	for i := 0; i < n.NumChildren(); i++ {
		if w.cancelled() {
			return
		}
		if w.inAtOthers(n, i) {
			w.putAtOthersChild(n, i)
		}
	}
	w.putSentinel(sentinel.EndOthers.Keyword())
	w.indent -= delta
}

// putAtOthersChild writes the i'th child of parent with its body and the
// children its own @others would not otherwise reach.
func (w *writer) putAtOthersChild(parent *outline.Node, i int) {
	c := parent.Child(i)
	w.putClone(parent, i)
	if w.nestedFile(c) || !w.enter(c) {
		return
	}
	defer w.leave(c)

	savedDelims, savedLang := w.delims, w.language
	w.putOpenNodeSentinel(c, i+1, false)
	w.putBody(c)
	for k := 0; k < c.NumChildren(); k++ {
		if w.cancelled() {
			return
		}
		if w.inAtOthers(c, k) {
			w.putAtOthersChild(c, k)
		}
	}
	w.putCloseNodeSentinel(c, i+1, false)
	w.delims, w.language = savedDelims, savedLang
}

// @all.

func (w *writer) putAtAllLine(line string, n *outline.Node) {
	j, delta := whitespace.SkipLeading(line, 0, w.tabWidth)
	leadingWs := w.putLeadInSentinel(line, 0, j, delta)

	w.indent += delta
	w.putSentinel(leadSentinel(leadingWs, sentinel.StartAll.Keyword()))
	for i := 0; i < n.NumChildren(); i++ {
		if w.cancelled() {
			return
		}
		w.putAtAllChild(n, i)
	}
	w.putSentinel(sentinel.EndAll.Keyword())
	w.indent -= delta
}

// putAtAllChild writes a child and its whole subtree verbatim. Directives
// are not interpreted and derived file nodes are allowed.
func (w *writer) putAtAllChild(parent *outline.Node, i int) {
	if w.expanded[slot{parent, i}] {
		return
	}
	c := parent.Child(i)
	w.putClone(parent, i)
	if !w.enter(c) {
		return
	}
	defer w.leave(c)

	w.putOpenNodeSentinel(c, i+1, false)
	w.putAtAllBody(c)
	for k := 0; k < c.NumChildren(); k++ {
		if w.cancelled() {
			return
		}
		w.putAtAllChild(c, k)
	}
	w.putCloseNodeSentinel(c, i+1, false)
}

func (w *writer) putAtAllBody(n *outline.Node) {
	n.SetVisited()
	s := n.Body()
	trailingNewline := s == "" || strings.HasSuffix(s, "\n")
	if !trailingNewline {
		s += "\n"
	}
	for i := 0; i < len(s); {
		if w.cancelled() {
			return
		}
		next := nextLine(s, i)
		w.putCodeLine(s[i:next])
		i = next
	}
	if !trailingNewline {
		w.putSentinel(sentinel.Nonl.Keyword())
	}
}

// Section references.

// findReference returns the path from p's children down to the first
// node, in outline order, whose headline defines the section name.
func (w *writer) findReference(name string, p *outline.Node) []outline.Position {
	return p.FindPath(func(n *outline.Node) bool {
		return directives.MatchHeadline(n.Headline(), name) &&
			!directives.IsIgnored(n.Headline(), n.Body())
	})
}

// putRefLine writes a code line holding one or more section references,
// the first of which spans line[n1:n2+2].
func (w *writer) putRefLine(line string, n1, n2 int, p *outline.Node) {
	delta, ok := w.putRefAt(line, 0, n1, n2, p, -1)
	if !ok {
		w.putCodeLine(line)
		return
	}
	for {
		i := n2 + 2
		found, m1, m2 := directives.FindSectionName(line, i)
		if !found {
			break
		}
		w.putAfterMiddleRef(line, i, m1, delta)
		w.putRefAt(line, m1, m1, m2, p, delta)
		n2 = m2
	}
	w.putAfterLastRef(line, n2+2, delta)
}

// putRefAt writes the reference at line[n1:n2+2], preceded by the text
// from i, followed by the referenced node bracketed by @+middle sentinels
// for the nodes between p and the definition. delta is the indentation of
// the line, computed on first use when negative.
func (w *writer) putRefAt(line string, i, n1, n2 int, p *outline.Node, delta int) (int, bool) {
	name := line[n1 : n2+2]
	path := w.findReference(name, p)
	if path == nil {
		w.writeError("undefined section: %s referenced from: %s", name, p.Headline())
		return delta, false
	}
	if delta < 0 {
		_, delta = whitespace.SkipLeading(line, i, w.tabWidth)
	}
	leadingWs := w.putLeadInSentinel(line, i, n1, delta)

	w.indent += delta
	defer func() { w.indent -= delta }()

	w.putSentinel(refSentinel(leadingWs, name))

	middles, ref := path[:len(path)-1], path[len(path)-1]
	for _, m := range middles {
		w.putOpenNodeSentinel(m.Node, m.Index+1, true)
	}
	w.expanded[slot{ref.Parent, ref.Index}] = true
	if !w.nestedFile(ref.Node) && w.enter(ref.Node) {
		savedDelims, savedLang := w.delims, w.language
		w.putOpenNodeSentinel(ref.Node, ref.Index+1, false)
		w.putBody(ref.Node)
		w.putCloseNodeSentinel(ref.Node, ref.Index+1, false)
		w.delims, w.language = savedDelims, savedLang
		w.leave(ref.Node)
	}
	for k := len(middles) - 1; k >= 0; k-- {
		w.putCloseNodeSentinel(middles[k].Node, middles[k].Index+1, true)
	}
	return delta, true
}

// putAfterLastRef writes what follows the last reference on a line: an
// @afterref sentinel and the raw text, or @nl when only whitespace is left.
func (w *writer) putAfterLastRef(line string, start, delta int) {
	j := whitespace.SkipWS(line, start)
	w.indent += delta
	defer func() { w.indent -= delta }()

	if j < len(line) && line[j] != '\n' {
		w.putSentinel(sentinel.AfterRef.Keyword())
		after := line[start:]
		w.buf.WriteString(after)
		if !strings.HasSuffix(after, "\n") {
			w.newline()
		}
		return
	}
	w.putSentinel(sentinel.Nl.Keyword())
}

// putAfterMiddleRef writes the text between two references on a line.
func (w *writer) putAfterMiddleRef(line string, start, end, delta int) {
	if start >= end {
		return
	}
	w.indent += delta
	defer func() { w.indent -= delta }()

	w.putSentinel(sentinel.AfterRef.Keyword())
	w.buf.WriteString(line[start:end])
	w.newline()
	w.putSentinel(sentinel.Nonl.Keyword())
}
