// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/atfile/pkg/ui/display"
	"github.com/arthur-debert/atfile/pkg/ui/styles"
)

// Renderer writes results styled with lipgloss.
type Renderer struct {
	output io.Writer
	styles *styles.Registry
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w, styles: styles.Default()}, nil
}

var statusStyle = map[string]string{
	display.StatusCreated:   "Created",
	display.StatusChanged:   "Changed",
	display.StatusUnchanged: "Unchanged",
	display.StatusRead:      "Read",
	display.StatusClean:     "Clean",
	display.StatusFailed:    "Failed",
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.CommandResult:
		return r.renderCommand(v)
	case *display.ClassifyResult:
		return r.renderClassify(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderCommand(res *display.CommandResult) error {
	var b strings.Builder
	if res.Message != "" {
		b.WriteString(r.styles.Render("Header", res.Message))
		b.WriteString("\n")
	}
	for _, f := range res.Files {
		b.WriteString(r.styles.Render("FilePath", f.Path))
		b.WriteString("  ")
		b.WriteString(r.styles.Render(statusStyle[f.Status], f.Status))
		if f.Errors > 0 || f.Warnings > 0 {
			b.WriteString(r.styles.Render("Muted", fmt.Sprintf("  %d errors, %d warnings", f.Errors, f.Warnings)))
		}
		b.WriteString("\n")
		for _, d := range f.Diagnostics {
			style := "Error"
			if d.Severity == "warning" {
				style = "Warning"
			}
			b.WriteString("  ")
			b.WriteString(r.styles.Render(style, display.FormatDiagnostic(f.Path, d)))
			b.WriteString("\n")
		}
		if f.Diff != "" {
			b.WriteString(r.renderDiff(f.Diff))
		}
	}
	if len(res.Files) > 1 {
		b.WriteString(r.summary(res))
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) summary(res *display.CommandResult) string {
	counts := res.Counts()
	var parts []string
	for _, status := range []string{
		display.StatusCreated, display.StatusChanged, display.StatusUnchanged,
		display.StatusRead, display.StatusClean, display.StatusFailed,
	} {
		if n := counts[status]; n > 0 {
			parts = append(parts, r.styles.Render(statusStyle[status], fmt.Sprintf("%d %s", n, status)))
		}
	}
	return "\n" + strings.Join(parts, ", ") + "\n"
}

func (r *Renderer) renderDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "@@"):
			text = r.styles.Render("DiffHunk", text)
		case strings.HasPrefix(text, "+"):
			text = r.styles.Render("DiffAdd", text)
		case strings.HasPrefix(text, "-"):
			text = r.styles.Render("DiffDel", text)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderClassify(res *display.ClassifyResult) error {
	var b strings.Builder
	b.WriteString(r.styles.Render("FilePath", res.Path))
	b.WriteString("  ")
	b.WriteString(r.styles.Render("Muted", res.Header))
	b.WriteString("\n")
	for _, l := range res.Lines {
		b.WriteString(r.styles.Render("LineNumber", fmt.Sprint(l.Number)))
		kind := l.Kind
		if kind == "not-a-sentinel" {
			b.WriteString(r.styles.Render("Kind", ""))
		} else {
			b.WriteString(r.styles.Render("Kind", kind))
		}
		b.WriteString(" ")
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, r.styles.Render("Error", "Error: "+err.Error()))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
