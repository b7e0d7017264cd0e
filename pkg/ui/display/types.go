// Package display holds the presentation model shared by the renderers.
// Command results are converted to these types once, so every output
// format shows the same facts.
package display

import (
	"time"

	"github.com/arthur-debert/atfile/pkg/atfile"
)

// File statuses.
const (
	StatusCreated   = "created"
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
	StatusRead      = "read"
	StatusClean     = "clean"
	StatusFailed    = "failed"
)

// CommandResult is the output of one command over one or more files.
type CommandResult struct {
	Command   string       `json:"command"`
	Message   string       `json:"message,omitempty"`
	Files     []FileResult `json:"files"`
	Timestamp time.Time    `json:"timestamp"`
}

// FileResult describes what a command did to one derived file.
type FileResult struct {
	Path        string       `json:"path"`
	Status      string       `json:"status"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Diff        string       `json:"diff,omitempty"`
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ClassifyResult lists the sentinel kind of every line of a file.
type ClassifyResult struct {
	Path   string           `json:"path"`
	Header string           `json:"header"`
	Lines  []ClassifiedLine `json:"lines"`
}

// ClassifiedLine is one line of a ClassifyResult.
type ClassifiedLine struct {
	Number  int    `json:"number"`
	Kind    string `json:"kind"`
	Payload string `json:"payload,omitempty"`
	Text    string `json:"text"`
}

// Failed reports whether any file failed.
func (r *CommandResult) Failed() bool {
	for _, f := range r.Files {
		if f.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Counts returns the number of files per status.
func (r *CommandResult) Counts() map[string]int {
	counts := map[string]int{}
	for _, f := range r.Files {
		counts[f.Status]++
	}
	return counts
}

func fromReport(path string, rep atfile.Report) FileResult {
	f := FileResult{Path: path, Errors: rep.Errors, Warnings: rep.Warnings}
	for _, d := range rep.Diagnostics {
		f.Diagnostics = append(f.Diagnostics, Diagnostic{
			Line:     d.Line,
			Severity: d.Severity.String(),
			Message:  d.Message,
		})
	}
	return f
}

// FromWrite converts the result of a write.
func FromWrite(res *atfile.WriteResult) FileResult {
	f := fromReport(res.Path, res.Report)
	switch {
	case !res.OK():
		f.Status = StatusFailed
	case res.Created:
		f.Status = StatusCreated
	case res.Changed:
		f.Status = StatusChanged
	default:
		f.Status = StatusUnchanged
	}
	return f
}

// FromRead converts the result of a read.
func FromRead(path string, res *atfile.ReadResult) FileResult {
	f := fromReport(path, res.Report)
	f.Status = StatusRead
	if !res.OK() {
		f.Status = StatusFailed
	}
	return f
}

// FromCheck converts the result of a round-trip check.
func FromCheck(path string, res *atfile.CheckResult) FileResult {
	f := fromReport(path, res.Report)
	f.Diff = res.Diff
	f.Status = StatusClean
	if !res.OK() {
		f.Status = StatusFailed
	}
	return f
}

// FromClassify converts the lines reported by Codec.Classify.
func FromClassify(path, header string, lines []atfile.LineInfo) *ClassifyResult {
	r := &ClassifyResult{Path: path, Header: header}
	for _, l := range lines {
		r.Lines = append(r.Lines, ClassifiedLine{
			Number:  l.Number,
			Kind:    l.Kind.String(),
			Payload: l.Payload,
			Text:    l.Text,
		})
	}
	return r
}
