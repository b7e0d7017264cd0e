package outline

import (
	"sync"

	"github.com/arthur-debert/atfile/pkg/gnx"
)

// Index maps global node indices to nodes. The reverse direction is
// Node.ID. An Index is safe for concurrent use, but the nodes it points to
// are not.
type Index struct {
	mu   sync.RWMutex
	byID map[gnx.ID]*Node
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[gnx.ID]*Node)}
}

// IndexTree returns an index of every node with an ID under the roots.
func IndexTree(roots ...*Node) *Index {
	x := NewIndex()
	for _, r := range roots {
		for _, n := range r.Subtree() {
			x.Add(n)
		}
	}
	return x
}

// Add records n under its ID. Nodes without an ID are ignored. An existing
// entry for the same ID is kept.
func (x *Index) Add(n *Node) {
	if n.ID().IsZero() {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.byID[n.ID()]; !ok {
		x.byID[n.ID()] = n
	}
}

// Lookup returns the node with the given ID.
func (x *Index) Lookup(id gnx.ID) (*Node, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n, ok := x.byID[id]
	return n, ok
}

// Remove forgets id.
func (x *Index) Remove(id gnx.ID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.byID, id)
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byID)
}
