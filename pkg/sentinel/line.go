package sentinel

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// Line is a classified line of a derived file.
type Line struct {
	Kind Kind

	// Payload is the text following the keyword with the closing block
	// delimiter removed and CWEB doubling undone. For node and middle
	// sentinels the separating ':' is not part of the payload. For
	// SectionRef it starts at "<<"; for Directive it follows "@@".
	Payload string

	// Gap is the whitespace between the introducing '@' and "@+others",
	// "@+all" or "<<". It records the spelling of the indentation of the
	// directive that produced the region.
	Gap string

	// Indent is the whitespace before the opening delimiter.
	Indent string
}

// Classify classifies s, a single line with or without its line ending,
// under the active delimiters.
func Classify(s string, d Delims) Line {
	not := Line{Kind: NotASentinel}
	if d.Start == "" {
		return not
	}

	i := whitespace.SkipWS(s, 0)
	if !strings.HasPrefix(s[i:], d.Start) {
		return not
	}
	indent := s[:i]
	rest := trimNewline(s[i+len(d.Start):])
	if d.End != "" {
		if k := strings.LastIndex(rest, d.End); k >= 0 {
			rest = rest[:k]
		}
	}
	if d.IsCWEB() {
		rest = strings.ReplaceAll(rest, "@@", "@")
	}
	if !strings.HasPrefix(rest, "@") {
		return not
	}
	r := rest[1:]

	// @<ws>@+others, @<ws>@+all and @<ws><<name>> carry the spelling of
	// the directive's indentation. Older writers also spelled the closer
	// @<ws>@-others. Any other whitespace after the '@' means the line is
	// not a sentinel.
	if j := whitespace.SkipWS(r, 0); j > 0 {
		gap, t := r[:j], r[j:]
		switch {
		case hasWord(t, StartOthers.Keyword()):
			return Line{Kind: StartOthers, Gap: gap, Payload: t[len(StartOthers.Keyword()):], Indent: indent}
		case hasWord(t, EndOthers.Keyword()):
			return Line{Kind: EndOthers, Gap: gap, Payload: t[len(EndOthers.Keyword()):], Indent: indent}
		case hasWord(t, StartAll.Keyword()):
			return Line{Kind: StartAll, Gap: gap, Payload: t[len(StartAll.Keyword()):], Indent: indent}
		case strings.HasPrefix(t, "<<"):
			return Line{Kind: SectionRef, Gap: gap, Payload: t, Indent: indent}
		}
		return not
	}

	switch {
	case strings.HasPrefix(r, "<<"):
		return Line{Kind: SectionRef, Payload: r, Indent: indent}
	case strings.HasPrefix(r, "@"):
		return Line{Kind: Directive, Payload: r[1:], Indent: indent}
	}

	k := 0
	if k < len(r) && (r[k] == '+' || r[k] == '-') {
		k++
	}
	for k < len(r) {
		c, size := utf8.DecodeRuneInString(r[k:])
		if !isWordRune(c) {
			break
		}
		k += size
	}
	kind, ok := keywords["@"+r[:k]]
	if !ok {
		return not
	}
	payload := r[k:]
	if hasNodePayload(kind) {
		payload = strings.TrimPrefix(payload, ":")
	}
	return Line{Kind: kind, Payload: payload, Indent: indent}
}

// Text returns the sentinel text of l without delimiters or indentation,
// e.g. "@+node:gnx:headline".
func (l Line) Text() string {
	switch l.Kind {
	case NotASentinel:
		return l.Payload
	case Directive:
		return "@@" + l.Payload
	case SectionRef:
		return "@" + l.Gap + l.Payload
	case StartOthers, StartAll, EndOthers:
		if l.Gap != "" {
			return "@" + l.Gap + l.Kind.Keyword() + l.Payload
		}
	}
	if hasNodePayload(l.Kind) {
		return l.Kind.Keyword() + ":" + l.Payload
	}
	return l.Kind.Keyword() + l.Payload
}

// Render renders a sentinel of the given kind and payload as a complete
// comment, without indentation or line ending.
func Render(kind Kind, payload string, d Delims) string {
	return Format(Line{Kind: kind, Payload: payload}.Text(), d)
}

// Format wraps sentinel text in the delimiters, applying CWEB doubling when
// the opening delimiter ends in '@'.
func Format(text string, d Delims) string {
	if d.IsCWEB() && strings.HasPrefix(text, "@") {
		text = "@" + strings.ReplaceAll(text[1:], "@", "@@")
	}
	return d.Start + text + d.End
}

func hasNodePayload(k Kind) bool {
	switch k {
	case StartNode, EndNode, StartMiddle, EndMiddle:
		return true
	}
	return false
}

// hasWord reports whether s starts with word followed by a non-word
// character or the end of s.
func hasWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	if len(s) == len(word) {
		return true
	}
	c, _ := utf8.DecodeRuneInString(s[len(word):])
	return !isWordRune(c)
}

func isWordRune(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
