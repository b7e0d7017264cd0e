package outline

// Position is one place a node occupies in a walk.
type Position struct {
	Node   *Node
	Parent *Node
	// Index is the child index within Parent, or -1 for the walk root.
	Index int
	Depth int
}

// Walk visits n and its descendants in pre-order, once per position, so a
// cloned node is visited at each place it appears. Returning false from fn
// skips the position's descendants.
func (n *Node) Walk(fn func(Position) bool) {
	n.walk(Position{Node: n, Index: -1}, fn)
}

func (n *Node) walk(p Position, fn func(Position) bool) {
	if !fn(p) {
		return
	}
	for i, c := range n.children {
		c.walk(Position{Node: c, Parent: n, Index: i, Depth: p.Depth + 1}, fn)
	}
}

// Subtree returns n and its distinct descendants in pre-order. Each
// cloned node is listed once and its subtree is expanded once.
func (n *Node) Subtree() []*Node {
	seen := map[*Node]bool{}
	var out []*Node
	var visit func(*Node)
	visit = func(m *Node) {
		if seen[m] {
			return
		}
		seen[m] = true
		out = append(out, m)
		for _, c := range m.children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// ClearVisitedInTree clears the pass mark of n and every descendant.
func (n *Node) ClearVisitedInTree() {
	for _, m := range n.Subtree() {
		m.ClearVisited()
	}
}

// FindPath searches the descendants of n in pre-order for the first node
// accepted by match. It returns the positions leading from n's children
// down to the match, or nil.
func (n *Node) FindPath(match func(*Node) bool) []Position {
	var path []Position
	var search func(m *Node, depth int, seen map[*Node]bool) bool
	search = func(m *Node, depth int, seen map[*Node]bool) bool {
		if seen[m] {
			return false
		}
		seen[m] = true
		for i, c := range m.children {
			path = append(path, Position{Node: c, Parent: m, Index: i, Depth: depth})
			if match(c) || search(c, depth+1, seen) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if search(n, 1, map[*Node]bool{}) {
		return path
	}
	return nil
}
