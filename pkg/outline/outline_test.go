package outline

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqAllocator struct{ n int }

func (a *seqAllocator) Next() gnx.ID {
	a.n++
	return gnx.ID("t." + string(rune('a'+a.n-1)))
}

// sample builds root -> (a, b -> (c), c) where c is cloned.
func sample() (root, a, b, c *Node) {
	root = New("r", "@thin foo.py", "@others\n")
	a = New("a", "a", "A\n")
	b = New("b", "b", "B\n")
	c = New("c", "c", "C\n")
	root.AppendChild(a)
	root.AppendChild(b)
	b.AppendChild(c)
	root.AppendChild(c)
	return
}

func TestNodeLinks(t *testing.T) {
	root, a, b, c := sample()

	assert.Equal(t, 3, root.NumChildren())
	assert.True(t, c.IsCloned())
	assert.False(t, a.IsCloned())
	assert.ElementsMatch(t, []*Node{b, root}, c.Parents())

	old := root.RemoveChild(2)
	assert.Same(t, c, old)
	assert.False(t, c.IsCloned())

	root.InsertChild(0, c)
	assert.Same(t, c, root.Child(0))
	assert.Same(t, a, root.Child(1))

	replaced := root.ReplaceChild(1, New("d", "d", ""))
	assert.Same(t, a, replaced)
	assert.Empty(t, a.Parents())
}

func TestSetBodyMarksDirty(t *testing.T) {
	n := New("x", "h", "b")
	n.SetBody("b")
	assert.False(t, n.Dirty())
	n.SetBody("c")
	assert.True(t, n.Dirty())

	n.SetDirty(false)
	n.SetHeadline("h2")
	assert.True(t, n.Dirty())
}

func TestCanAdopt(t *testing.T) {
	root, a, b, c := sample()
	assert.True(t, a.CanAdopt(c))
	assert.False(t, c.CanAdopt(b))
	assert.False(t, c.CanAdopt(root))
	assert.False(t, c.CanAdopt(c))
}

func TestWalkVisitsEveryPosition(t *testing.T) {
	root, _, _, _ := sample()

	var got []string
	root.Walk(func(p Position) bool {
		got = append(got, p.Node.Headline())
		return true
	})
	assert.Equal(t, []string{"@thin foo.py", "a", "b", "c", "c"}, got)

	got = nil
	root.Walk(func(p Position) bool {
		got = append(got, p.Node.Headline())
		return p.Node.Headline() != "b"
	})
	assert.Equal(t, []string{"@thin foo.py", "a", "b", "c"}, got)
}

func TestSubtreeListsNodesOnce(t *testing.T) {
	root, a, b, c := sample()
	assert.Equal(t, []*Node{root, a, b, c}, root.Subtree())

	for _, n := range root.Subtree() {
		n.SetVisited()
	}
	root.ClearVisitedInTree()
	assert.False(t, c.Visited())
}

func TestFindPath(t *testing.T) {
	root, _, b, c := sample()
	path := root.FindPath(func(n *Node) bool { return n == c })
	require.Len(t, path, 2)
	assert.Same(t, b, path[0].Node)
	assert.Same(t, c, path[1].Node)
	assert.Equal(t, 2, path[1].Depth)

	assert.Nil(t, root.FindPath(func(n *Node) bool { return n.Headline() == "zzz" }))
}

func TestIndex(t *testing.T) {
	root, _, _, c := sample()
	x := IndexTree(root, New("", "anonymous", ""))

	assert.Equal(t, 4, x.Len())
	got, ok := x.Lookup("c")
	require.True(t, ok)
	assert.Same(t, c, got)

	x.Add(New("c", "other", ""))
	got, _ = x.Lookup("c")
	assert.Same(t, c, got)

	x.Remove("c")
	_, ok = x.Lookup("c")
	assert.False(t, ok)
}

func TestYAMLRoundTrip(t *testing.T) {
	root, _, _, _ := sample()

	data, err := MarshalYAML([]*Node{root})
	require.NoError(t, err)
	assert.Contains(t, string(data), "clone: c")

	roots, err := UnmarshalYAML(data, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	r := roots[0]
	assert.Equal(t, "@thin foo.py", r.Headline())
	assert.Equal(t, "@others\n", r.Body())
	require.Equal(t, 3, r.NumChildren())
	assert.Same(t, r.Child(1).Child(0), r.Child(2))
	assert.True(t, r.Child(2).IsCloned())
}

func TestUnmarshalYAML(t *testing.T) {
	t.Run("allocates_missing_gnx", func(t *testing.T) {
		roots, err := UnmarshalYAML([]byte("- headline: x\n  children:\n    - headline: y\n"), &seqAllocator{})
		require.NoError(t, err)
		assert.Equal(t, gnx.ID("t.a"), roots[0].ID())
		assert.Equal(t, gnx.ID("t.b"), roots[0].Child(0).ID())
	})

	t.Run("forward_clone_reference", func(t *testing.T) {
		doc := "- gnx: r\n  children:\n    - clone: k\n    - gnx: k\n      headline: kid\n"
		roots, err := UnmarshalYAML([]byte(doc), nil)
		require.NoError(t, err)
		assert.Same(t, roots[0].Child(0), roots[0].Child(1))
	})

	tests := []struct {
		name string
		doc  string
		code errors.ErrorCode
	}{
		{"bad_yaml", "- [", errors.ErrOutlineParse},
		{"unknown_clone", "- gnx: r\n  children:\n    - clone: nope\n", errors.ErrOutlineParse},
		{"duplicate_gnx", "- gnx: r\n- gnx: r\n", errors.ErrOutlineParse},
		{"clone_cycle", "- gnx: r\n  children:\n    - clone: r\n", errors.ErrOutlineParse},
		{"missing_gnx_without_allocator", "- headline: x\n", errors.ErrInvalidGNX},
		{"invalid_gnx", "- gnx: \"a:b\"\n", errors.ErrInvalidGNX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalYAML([]byte(tt.doc), nil)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestMarshalYAMLRejectsAnonymousClone(t *testing.T) {
	root := New("r", "r", "")
	anon := New("", "anon", "")
	root.AppendChild(anon)
	root.AppendChild(anon)

	_, err := MarshalYAML([]*Node{root})
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutlineParse))
}

func TestLeoRoundTrip(t *testing.T) {
	root, _, _, _ := sample()
	root.Child(0).SetBody("  \n")

	var buf bytes.Buffer
	require.NoError(t, WriteLeo(&buf, []*Node{root}))
	out := buf.String()
	assert.Contains(t, out, `<leo_file>`)
	assert.Contains(t, out, `<v t="c"/>`)
	assert.Contains(t, out, `<t tx="b">B`)

	roots, err := ReadLeo(&buf, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	r := roots[0]
	assert.Equal(t, "@thin foo.py", r.Headline())
	assert.Equal(t, "@others\n", r.Body())
	assert.Equal(t, "  \n", r.Child(0).Body())
	assert.Same(t, r.Child(1).Child(0), r.Child(2))
	assert.Equal(t, "C\n", r.Child(2).Body())
}

func TestReadLeo(t *testing.T) {
	t.Run("allocates_missing_gnx", func(t *testing.T) {
		src := `<leo_file><vnodes><v><vh>x</vh></v></vnodes></leo_file>`
		roots, err := ReadLeo(bytes.NewBufferString(src), &seqAllocator{})
		require.NoError(t, err)
		assert.Equal(t, gnx.ID("t.a"), roots[0].ID())
		assert.Equal(t, "x", roots[0].Headline())
	})

	tests := []struct {
		name string
		src  string
	}{
		{"not_xml", "<leo_file"},
		{"no_leo_file", "<other/>"},
		{"no_vnodes", "<leo_file/>"},
		{"clone_cycle", `<leo_file><vnodes><v t="r"><vh>r</vh><v t="r"/></v></vnodes></leo_file>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLeo(bytes.NewBufferString(tt.src), nil)
			assert.True(t, errors.IsErrorCode(err, errors.ErrOutlineParse), "got %v", err)
		})
	}
}

func TestWriteLeoRequiresIDs(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLeo(&buf, []*Node{New("", "x", "")})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidGNX))
}
