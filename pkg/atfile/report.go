package atfile

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Severity of a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a structural problem found while reading or writing a
// derived file.
type Diagnostic struct {
	File     string
	Line     int // 1-based line of the derived file; 0 when not tied to a line
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
}

// Report collects the diagnostics of one read or write. Structural errors
// do not stop a session; the caller decides what a non-zero Errors count
// means.
type Report struct {
	File        string
	Errors      int
	Warnings    int
	Diagnostics []Diagnostic
}

// OK reports whether the session recorded no errors.
func (r *Report) OK() bool { return r.Errors == 0 }

// collector appends diagnostics to a report and logs them. The first error
// of a session is preceded by a summary line naming the file.
type collector struct {
	report *Report
	op     string
	logger zerolog.Logger
}

func newCollector(file, op string, logger zerolog.Logger) *collector {
	return &collector{
		report: &Report{File: file},
		op:     op,
		logger: logger.With().Str("file", file).Logger(),
	}
}

func (c *collector) errorf(line int, format string, args ...interface{}) {
	if c.report.Errors == 0 {
		c.logger.Error().Msgf("errors %s: %s", c.op, c.report.File)
	}
	c.report.Errors++
	d := c.add(line, SeverityError, format, args...)
	c.logger.Error().Int("line", line).Msg(d.Message)
}

func (c *collector) warnf(line int, format string, args ...interface{}) {
	c.report.Warnings++
	d := c.add(line, SeverityWarning, format, args...)
	c.logger.Warn().Int("line", line).Msg(d.Message)
}

func (c *collector) add(line int, sev Severity, format string, args ...interface{}) Diagnostic {
	d := Diagnostic{
		File:     c.report.File,
		Line:     line,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	}
	c.report.Diagnostics = append(c.report.Diagnostics, d)
	return d
}
