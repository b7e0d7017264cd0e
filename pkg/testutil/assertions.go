package testutil

import (
	"testing"

	"github.com/arthur-debert/atfile/pkg/outline"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
)

// AssertText compares two texts and reports a difference as a unified
// diff, which reads far better than a quoted string for derived files.
func AssertText(t *testing.T, want, got string, msgAndArgs ...interface{}) bool {
	t.Helper()
	if want == got {
		return true
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	return assert.Fail(t, "texts differ:\n"+diff, msgAndArgs...)
}

// AssertSameTree checks that two trees have the same shape, IDs,
// headlines and bodies.
func AssertSameTree(t *testing.T, want, got *outline.Node) bool {
	t.Helper()
	ok := assert.Equal(t, want.ID(), got.ID(), "gnx of %q", want.Headline())
	ok = assert.Equal(t, want.Headline(), got.Headline()) && ok
	ok = AssertText(t, want.Body(), got.Body(), "body of %q", want.Headline()) && ok
	if !assert.Equal(t, want.NumChildren(), got.NumChildren(), "children of %q", want.Headline()) {
		return false
	}
	for i := 0; i < want.NumChildren(); i++ {
		ok = AssertSameTree(t, want.Child(i), got.Child(i)) && ok
	}
	return ok
}
