package display

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWrite(t *testing.T) {
	tests := []struct {
		name string
		res  *atfile.WriteResult
		want string
	}{
		{"created", &atfile.WriteResult{Path: "a", Changed: true, Created: true}, StatusCreated},
		{"changed", &atfile.WriteResult{Path: "a", Changed: true}, StatusChanged},
		{"unchanged", &atfile.WriteResult{Path: "a"}, StatusUnchanged},
		{"failed", &atfile.WriteResult{Path: "a", Report: atfile.Report{Errors: 1}}, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromWrite(tt.res).Status)
		})
	}
}

func TestFromCheckKeepsDiagnostics(t *testing.T) {
	res := &atfile.CheckResult{
		Report: atfile.Report{
			Errors:   1,
			Warnings: 1,
			Diagnostics: []atfile.Diagnostic{
				{Line: 3, Severity: atfile.SeverityWarning, Message: "headline mismatch"},
				{Severity: atfile.SeverityError, Message: "file does not round-trip"},
			},
		},
		Diff: "--- a\n+++ b\n",
	}
	f := FromCheck("foo.py", res)
	assert.Equal(t, StatusFailed, f.Status)
	require.Len(t, f.Diagnostics, 2)
	assert.Equal(t, "foo.py:3: warning: headline mismatch", FormatDiagnostic(f.Path, f.Diagnostics[0]))
	assert.Equal(t, "foo.py: error: file does not round-trip", FormatDiagnostic(f.Path, f.Diagnostics[1]))
	assert.Equal(t, res.Diff, f.Diff)
}

func TestRenderClassify(t *testing.T) {
	res := FromClassify("foo.py", "@+leo-ver=5-thin", []atfile.LineInfo{
		{Number: 1, Kind: sentinel.StartLeo, Text: "#@+leo-ver=5-thin"},
		{Number: 2, Kind: sentinel.NotASentinel, Text: "x = 1"},
	})
	buf := &bytes.Buffer{}
	require.NoError(t, NewTextRenderer(buf).RenderClassify(res))
	assert.Equal(t,
		"foo.py: @+leo-ver=5-thin\n"+
			"    1  start-leo       #@+leo-ver=5-thin\n"+
			"    2  not-a-sentinel  x = 1\n",
		buf.String())
}

func TestCounts(t *testing.T) {
	r := &CommandResult{Files: []FileResult{
		{Status: StatusCreated}, {Status: StatusCreated}, {Status: StatusFailed},
	}}
	assert.Equal(t, map[string]int{StatusCreated: 2, StatusFailed: 1}, r.Counts())
	assert.True(t, r.Failed())
}
