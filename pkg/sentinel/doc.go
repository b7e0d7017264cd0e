// Package sentinel implements the grammar of sentinel lines: the comment
// lines a derived file uses to embed outline structure in plain source text.
//
// A sentinel is the active opening comment delimiter immediately followed by
// '@' and a keyword, optionally followed by the closing block delimiter:
//
//	#@+node:ekr.20260101120000.1:helper
//	/*@-others*/
//
// Classify maps a line to a Kind under a given pair of delimiters, and
// Render and Format produce sentinel lines. Neither keeps state: the reader
// and writer own the active delimiters and pass them in.
package sentinel
