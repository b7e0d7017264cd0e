package display

import (
	"fmt"
	"io"
	"strings"
)

// TextRenderer writes results as plain text, one line per fact, suitable
// for pipes and logs.
type TextRenderer struct {
	writer io.Writer
}

// NewTextRenderer creates a new text renderer
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{writer: w}
}

// Render writes a command result.
func (r *TextRenderer) Render(result *CommandResult) error {
	if result == nil {
		return nil
	}
	if result.Message != "" {
		if _, err := fmt.Fprintln(r.writer, result.Message); err != nil {
			return err
		}
	}
	if len(result.Files) == 0 {
		_, err := fmt.Fprintln(r.writer, "no derived files")
		return err
	}
	for _, f := range result.Files {
		if err := r.renderFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) renderFile(f FileResult) error {
	line := fmt.Sprintf("%s: %s", f.Path, f.Status)
	if f.Errors > 0 || f.Warnings > 0 {
		line += fmt.Sprintf(" (%d errors, %d warnings)", f.Errors, f.Warnings)
	}
	if _, err := fmt.Fprintln(r.writer, line); err != nil {
		return err
	}
	for _, d := range f.Diagnostics {
		if _, err := fmt.Fprintf(r.writer, "    %s\n", FormatDiagnostic(f.Path, d)); err != nil {
			return err
		}
	}
	if f.Diff != "" {
		if _, err := io.WriteString(r.writer, f.Diff); err != nil {
			return err
		}
	}
	return nil
}

// RenderClassify writes one line per file line: number, kind and text.
func (r *TextRenderer) RenderClassify(result *ClassifyResult) error {
	if _, err := fmt.Fprintf(r.writer, "%s: %s\n", result.Path, result.Header); err != nil {
		return err
	}
	width := 0
	for _, l := range result.Lines {
		width = max(width, len(l.Kind))
	}
	for _, l := range result.Lines {
		if _, err := fmt.Fprintf(r.writer, "%5d  %-*s  %s\n", l.Number, width, l.Kind, l.Text); err != nil {
			return err
		}
	}
	return nil
}

// FormatDiagnostic renders a diagnostic the way compilers do:
// path:line: severity: message.
func FormatDiagnostic(path string, d Diagnostic) string {
	var b strings.Builder
	b.WriteString(path)
	if d.Line > 0 {
		fmt.Fprintf(&b, ":%d", d.Line)
	}
	fmt.Fprintf(&b, ": %s: %s", d.Severity, d.Message)
	return b.String()
}
