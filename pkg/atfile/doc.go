// Package atfile reads and writes derived files: ordinary source files
// generated from an outline, annotated with sentinel comments from which
// the outline can be rebuilt.
//
// A derived file starts with an @+leo header naming the comment delimiters
// and dialect, and ends with @-leo. In between, @+node and @-node sentinels
// bracket the text of each node. Thin files identify nodes by gnx; thick
// files by position. @others, @all and section references expand child
// nodes in place, each bracketed by sentinels that record how the
// directive was spelled and indented, so that
//
//	write(read(write(tree))) == write(tree)
//
// byte for byte. Directives in node bodies become "@@" sentinels; doc parts
// become comments wrapped at the page width.
//
// Reading and writing are sessions: all mutable state lives in a session
// created per call, so one Codec serves many goroutines. Structural errors
// found during a session are recorded in a Report and never abort it; a
// write with errors leaves the target file untouched.
package atfile
