package directives

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// Kind classifies a body line by the directive it starts with.
type Kind int

const (
	// None is plain text, possibly holding section references.
	None Kind = iota
	// At is a bare "@" opening a doc part.
	At
	// Doc is "@doc" opening a doc part.
	Doc
	// C is "@c" ending a doc part.
	C
	// Code is "@code" ending a doc part.
	Code
	// Others is "@others", possibly indented.
	Others
	// All is "@all", possibly indented.
	All
	// Raw is "@raw".
	Raw
	// EndRaw is "@end_raw".
	EndRaw
	// Misc is any other known directive, e.g. "@language python".
	Misc
)

var kindNames = map[Kind]string{
	None:   "none",
	At:     "at",
	Doc:    "doc",
	C:      "c",
	Code:   "code",
	Others: "others",
	All:    "all",
	Raw:    "raw",
	EndRaw: "end_raw",
	Misc:   "misc",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Known is the list of directive names recognized at the start of a body
// line. Unknown "@word" lines are plain text.
var Known = []string{
	"all", "c", "code", "delims", "doc", "end_raw",
	"first", "last", "others", "raw", "root-code", "root-doc",
	"color", "comment", "encoding", "header", "ignore", "killcolor",
	"language", "lineending", "nocolor", "noheader", "nowrap",
	"pagewidth", "path", "quiet", "root", "silent",
	"tabwidth", "terse", "unit", "verbose", "wrap",
}

var structural = []struct {
	name string
	kind Kind
}{
	{"@all", All},
	{"@c", C},
	{"@code", Code},
	{"@doc", Doc},
	{"@end_raw", EndRaw},
	{"@others", Others},
	{"@raw", Raw},
}

// KindOf classifies line, a single body line. In CWEB a bare "@" and "@c"
// belong to the target language and are not directives.
func KindOf(line, language string) Kind {
	if line == "" {
		return None
	}
	if line[0] != '@' {
		j := whitespace.SkipWS(line, 0)
		switch {
		case MatchWord(line, j, "@others"):
			return Others
		case MatchWord(line, j, "@all"):
			return All
		}
		return None
	}

	cweb := language == "cweb"
	if len(line) == 1 || line[1] == ' ' || line[1] == '\t' || line[1] == '\n' || line[1] == '\r' {
		if cweb {
			return None
		}
		return At
	}
	if r, _ := utf8.DecodeRuneInString(line[1:]); !unicode.IsLetter(r) {
		return None
	}
	if cweb && MatchWord(line, 0, "@c") {
		return None
	}
	for _, d := range structural {
		if MatchWord(line, 0, d.name) {
			return d.kind
		}
	}
	for _, name := range Known {
		if MatchWord(line, 1, name) {
			return Misc
		}
	}
	return None
}

// MatchWord reports whether word occurs in s at i and is not followed by a
// word character.
func MatchWord(s string, i int, word string) bool {
	if i < 0 || i > len(s) || !strings.HasPrefix(s[i:], word) {
		return false
	}
	j := i + len(word)
	if j >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[j:])
	return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Arg returns the trimmed text following the directive name on a
// directive line, e.g. "python" for "@language python\n".
func Arg(line, name string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "@"+name))
}
