package atfile

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/arthur-debert/atfile/pkg/outline"
)

// cursor tracks which children of a parent the current pass has matched.
// Every matched index is below next.
type cursor struct {
	next    int
	matched map[int]bool
}

func (r *reader) cursor(parent *outline.Node) *cursor {
	c, ok := r.cursors[parent]
	if !ok {
		c = &cursor{matched: map[int]bool{}}
		r.cursors[parent] = c
	}
	return c
}

func (r *reader) takeCloneCount() int {
	n := r.cloneCount
	r.cloneCount = 0
	if n < 1 {
		return 1
	}
	return n
}

// resolveNode maps a node sentinel payload to the node it opens, creating
// or linking nodes as needed. Unusable sentinels yield a detached dummy
// node whose text is dropped.
func (r *reader) resolveNode(parent *outline.Node, payload string, middle bool) *outline.Node {
	var (
		id       gnx.ID
		ordinal  int
		headline string
	)
	if r.thin {
		j := strings.IndexByte(payload, ':')
		if j < 0 {
			r.errorf("missing gnx in node sentinel: %q", payload)
			return r.dummy(payload)
		}
		var err error
		if id, err = gnx.Parse(payload[:j]); err != nil {
			r.errorf("bad gnx in node sentinel: %v", err)
			return r.dummy(payload[j+1:])
		}
		headline = payload[j+1:]
	} else {
		j := strings.IndexByte(payload, ':')
		n, err := strconv.Atoi(payload[:max(j, 0)])
		if j < 0 || err != nil || !strings.HasPrefix(payload[j+1:], ":") {
			r.errorf("bad child index in node sentinel: %q", payload)
			return r.dummy(payload)
		}
		ordinal, headline = n, payload[j+2:]
	}
	headline = strings.TrimRightFunc(headline, unicode.IsSpace)

	if !r.rootSeen {
		r.rootSeen = true
		return r.adoptRoot(id, ordinal, headline)
	}
	if parent == nil {
		r.errorf("node sentinel outside the root node: %q", headline)
		return r.dummy(headline)
	}
	if r.thin {
		return r.thinChild(parent, id, headline, middle)
	}
	return r.thickChild(parent, ordinal, headline, middle)
}

// adoptRoot maps the first node sentinel to the root. A root without a
// headline takes the file's. A thin root without an ID takes the file's; a
// different ID is replaced by the file's with a warning.
func (r *reader) adoptRoot(id gnx.ID, ordinal int, headline string) *outline.Node {
	if old := r.root.Headline(); old == "" {
		r.root.SetHeadline(headline)
		r.undo = append(r.undo, func() { r.root.SetHeadline(old) })
	} else {
		r.checkHeadline(r.root, headline)
	}
	if !r.thin {
		if ordinal != 0 {
			r.warnf("root node sentinel has child index %d", ordinal)
		}
		return r.root
	}
	old := r.root.ID()
	if old == id {
		return r.root
	}
	if !old.IsZero() {
		r.warnf("root gnx %s differs from %s in the file; using the file's", old, id)
	}
	r.root.SetID(id)
	r.undo = append(r.undo, func() { r.root.SetID(old) })
	r.addToIndex(r.root)
	return r.root
}

// thinChild finds or creates the child of parent with the given ID. The
// next unmatched child with that ID is preferred, so a node appearing at
// several positions maps to each in turn; otherwise the node is found in
// the index, becoming a clone, or created.
func (r *reader) thinChild(parent *outline.Node, id gnx.ID, headline string, middle bool) *outline.Node {
	if middle {
		// Middle nodes are placed again by their own node sentinel;
		// matching them must not consume a position.
		for i := 0; i < parent.NumChildren(); i++ {
			if c := parent.Child(i); c.ID() == id {
				return c
			}
		}
		n := r.nodeFor(parent, id, headline)
		if n == nil {
			return r.dummy(headline)
		}
		r.link(parent, parent.NumChildren(), n)
		return n
	}

	count := r.takeCloneCount()
	cur := r.cursor(parent)
	k := -1
	for i := cur.next; i < parent.NumChildren(); i++ {
		if parent.Child(i).ID() == id {
			k = i
			break
		}
	}
	early := false
	if k < 0 {
		for i := 0; i < cur.next; i++ {
			if parent.Child(i).ID() == id && !cur.matched[i] {
				k, early = i, true
				break
			}
		}
	}

	var n *outline.Node
	if k >= 0 {
		n = parent.Child(k)
		r.checkHeadline(n, headline)
	} else {
		if n = r.nodeFor(parent, id, headline); n == nil {
			return r.dummy(headline)
		}
		k = cur.next
		r.link(parent, k, n)
	}
	cur.matched[k] = true

	for c := 1; c < count; c++ {
		pos := k + c
		switch {
		case pos < parent.NumChildren() && parent.Child(pos) == n:
		case early:
			r.warnf("expected %d clones of %q", count, headline)
			count = c
		default:
			r.link(parent, pos, n)
		}
		if c < count {
			cur.matched[pos] = true
		}
	}
	if k+count > cur.next {
		cur.next = k + count
	}
	return n
}

// thickChild finds or creates the child of parent at a 1-based ordinal.
// Skipped ordinals are filled with placeholders, reported as errors unless
// a later sentinel fills them.
func (r *reader) thickChild(parent *outline.Node, ordinal int, headline string, middle bool) *outline.Node {
	count := 1
	if !middle {
		count = r.takeCloneCount()
	}
	k := ordinal - 1
	if k < 0 {
		r.errorf("bad child index %d in node sentinel", ordinal)
		return r.dummy(headline)
	}
	for parent.NumChildren() < k {
		ph := r.newNode("")
		r.placeholders[ph] = fmt.Sprintf("child %d of %q", parent.NumChildren()+1, parent.Headline())
		r.link(parent, parent.NumChildren(), ph)
	}

	var n *outline.Node
	if k < parent.NumChildren() {
		n = parent.Child(k)
		if _, ok := r.placeholders[n]; ok {
			delete(r.placeholders, n)
			n.SetHeadline(headline)
		} else {
			r.checkHeadline(n, headline)
		}
	} else {
		n = r.newNode(headline)
		r.link(parent, k, n)
	}

	for c := 1; c < count; c++ {
		pos := k + c
		switch {
		case pos >= parent.NumChildren():
			r.link(parent, pos, n)
		case parent.Child(pos) != n:
			r.warnf("expected %d clones of %q", count, headline)
			return n
		}
	}
	return n
}

// nodeFor returns the indexed node with the given ID or a new one. A node
// that would become its own descendant is refused.
func (r *reader) nodeFor(parent *outline.Node, id gnx.ID, headline string) *outline.Node {
	if n, ok := r.index.Lookup(id); ok {
		if !parent.CanAdopt(n) {
			r.errorf("gnx %s would make %q a descendant of itself", id, n.Headline())
			return nil
		}
		return n
	}
	n := outline.New(id, headline, "")
	r.addToIndex(n)
	return n
}

// newNode creates a node for the thick dialect, which carries no IDs.
func (r *reader) newNode(headline string) *outline.Node {
	var id gnx.ID
	if r.alloc != nil {
		id = r.alloc.Next()
	}
	n := outline.New(id, headline, "")
	r.addToIndex(n)
	return n
}

func (r *reader) dummy(headline string) *outline.Node {
	return outline.New("", headline, "")
}

func (r *reader) addToIndex(n *outline.Node) {
	if _, ok := r.index.Lookup(n.ID()); ok || n.ID().IsZero() {
		return
	}
	r.index.Add(n)
	id := n.ID()
	r.undo = append(r.undo, func() { r.index.Remove(id) })
}

func (r *reader) link(parent *outline.Node, i int, n *outline.Node) {
	parent.InsertChild(i, n)
	r.undo = append(r.undo, func() { parent.RemoveChild(i) })
}

// checkHeadline warns when the file and the outline disagree on a
// headline. The outline's headline is kept.
func (r *reader) checkHeadline(n *outline.Node, headline string) {
	h := strings.TrimRightFunc(strings.ReplaceAll(n.Headline(), "\n", " "), unicode.IsSpace)
	if r.delims.IsBlock() {
		h = strings.ReplaceAll(h, r.delims.Start, "")
		h = strings.ReplaceAll(h, r.delims.End, "")
	}
	if h != headline {
		r.warnf("headline mismatch: file has %q, keeping %q", headline, n.Headline())
	}
}
