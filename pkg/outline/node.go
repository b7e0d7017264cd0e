package outline

import (
	"github.com/arthur-debert/atfile/pkg/gnx"
)

// Node is one logical outline node. A clone is the same *Node linked under
// several parents, or several times under one parent, so every position of
// a clone shares headline, body, children and ID.
type Node struct {
	id       gnx.ID
	headline string
	body     string
	children []*Node
	parents  []*Node

	visited bool
	dirty   bool
	orphan  bool
}

// New returns a detached node.
func New(id gnx.ID, headline, body string) *Node {
	return &Node{id: id, headline: headline, body: body}
}

// ID returns the node's global index.
func (n *Node) ID() gnx.ID { return n.id }

// SetID assigns the node's global index.
func (n *Node) SetID(id gnx.ID) { n.id = id }

// Headline returns the node's headline.
func (n *Node) Headline() string { return n.headline }

// SetHeadline changes the headline and marks the node dirty if it changed.
func (n *Node) SetHeadline(h string) {
	if h != n.headline {
		n.headline = h
		n.dirty = true
	}
}

// Body returns the node's body text.
func (n *Node) Body() string { return n.body }

// SetBody changes the body and marks the node dirty if it changed.
func (n *Node) SetBody(b string) {
	if b != n.body {
		n.body = b
		n.dirty = true
	}
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// NumChildren returns the number of child positions.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i'th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Parents returns one entry per position the node is linked at.
func (n *Node) Parents() []*Node {
	return append([]*Node(nil), n.parents...)
}

// IsCloned reports whether the node appears at more than one position.
func (n *Node) IsCloned() bool { return len(n.parents) > 1 }

// AppendChild links c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	n.children = append(n.children, c)
	c.parents = append(c.parents, n)
}

// InsertChild links c as the i'th child of n.
func (n *Node) InsertChild(i int, c *Node) {
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	c.parents = append(c.parents, n)
}

// ReplaceChild links c in place of the i'th child and returns the node it
// replaced.
func (n *Node) ReplaceChild(i int, c *Node) *Node {
	old := n.children[i]
	old.unlinkParent(n)
	n.children[i] = c
	c.parents = append(c.parents, n)
	return old
}

// RemoveChild unlinks the i'th child and returns it.
func (n *Node) RemoveChild(i int) *Node {
	old := n.children[i]
	n.children = append(n.children[:i], n.children[i+1:]...)
	old.unlinkParent(n)
	return old
}

func (n *Node) unlinkParent(p *Node) {
	for i, q := range n.parents {
		if q == p {
			n.parents = append(n.parents[:i], n.parents[i+1:]...)
			return
		}
	}
}

// CanAdopt reports whether c may be linked under n without creating a
// cycle.
func (n *Node) CanAdopt(c *Node) bool {
	return !c.reaches(n, map[*Node]bool{})
}

func (n *Node) reaches(target *Node, seen map[*Node]bool) bool {
	if n == target {
		return true
	}
	if seen[n] {
		return false
	}
	seen[n] = true
	for _, c := range n.children {
		if c.reaches(target, seen) {
			return true
		}
	}
	return false
}

// Visited reports the transient mark set during a read or write pass.
func (n *Node) Visited() bool { return n.visited }

// SetVisited sets the pass mark.
func (n *Node) SetVisited() { n.visited = true }

// ClearVisited clears the pass mark.
func (n *Node) ClearVisited() { n.visited = false }

// Dirty reports whether the node changed since it was last saved.
func (n *Node) Dirty() bool { return n.dirty }

// SetDirty sets or clears the dirty bit.
func (n *Node) SetDirty(d bool) { n.dirty = d }

// Orphan reports whether the node's derived file could not be written.
func (n *Node) Orphan() bool { return n.orphan }

// SetOrphan sets or clears the orphan bit.
func (n *Node) SetOrphan(o bool) { n.orphan = o }
