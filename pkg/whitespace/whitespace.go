// Package whitespace implements the column arithmetic shared by the derived
// file reader and writer. Widths are measured in columns: a tab advances to
// the next multiple of the absolute tab width. A negative tab width means
// indentation is emitted as spaces, a positive one (greater than one) means
// tabs are used where possible.
package whitespace

import "strings"

// Width returns the column width of the leading part of s, stopping at the
// first newline.
func Width(s string, tabWidth int) int {
	tw := abs(tabWidth)
	w := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\t':
			w += tw - (w % tw)
		case '\n':
			return w
		default:
			w++
		}
	}
	return w
}

// SkipLeading skips blanks and tabs starting at i. It returns the index of
// the first other character and the column width of the skipped run,
// measured from i.
func SkipLeading(s string, i, tabWidth int) (int, int) {
	tw := abs(tabWidth)
	count := 0
	for i < len(s) {
		switch s[i] {
		case ' ':
			count++
		case '\t':
			count += tw - (count % tw)
		default:
			return i, count
		}
		i++
	}
	return i, count
}

// SkipIndent skips at most width columns of leading whitespace starting at
// i and returns the new index. A tab that straddles width is consumed.
func SkipIndent(s string, i, width, tabWidth int) int {
	tw := abs(tabWidth)
	ws := 0
	for i < len(s) && ws < width {
		switch s[i] {
		case '\t':
			ws += tw - (ws % tw)
		case ' ':
			ws++
		default:
			return i
		}
		i++
	}
	return i
}

// RemoveLeading removes at most width columns of leading whitespace from s.
func RemoveLeading(s string, width, tabWidth int) string {
	return s[SkipIndent(s, 0, width, tabWidth):]
}

// Make returns the whitespace that spans width columns: tabs followed by
// blanks when tabWidth > 1, blanks otherwise.
func Make(width, tabWidth int) string {
	if width <= 0 {
		return ""
	}
	if tabWidth > 1 {
		return strings.Repeat("\t", width/tabWidth) + strings.Repeat(" ", width%tabWidth)
	}
	return strings.Repeat(" ", width)
}

// SkipWS skips blanks and tabs starting at i.
func SkipWS(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// IsBlank reports whether s holds nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	if n == 0 {
		return 1
	}
	return n
}
