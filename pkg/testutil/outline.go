package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/stretchr/testify/require"
)

// SeqAllocator hands out the IDs "n1", "n2", ... in order.
type SeqAllocator struct {
	mu sync.Mutex
	n  int
}

// Next returns the next ID.
func (a *SeqAllocator) Next() gnx.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.n++
	return gnx.ID(fmt.Sprintf("n%d", a.n))
}

// Outline builds the first tree of a YAML outline document. Nodes without
// a gnx are numbered by a fresh SeqAllocator.
//
//	root := testutil.Outline(t, `
//	- headline: "@file foo.py"
//	  body: "@others\n"
//	  children:
//	    - {gnx: c, headline: helper, body: "pass\n"}
//	`)
func Outline(t *testing.T, doc string) *outline.Node {
	t.Helper()
	roots, err := outline.UnmarshalYAML([]byte(doc), &SeqAllocator{})
	require.NoError(t, err)
	require.NotEmpty(t, roots, "outline document has no nodes")
	return roots[0]
}
