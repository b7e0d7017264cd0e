package directives

import (
	"strings"

	"github.com/arthur-debert/atfile/pkg/whitespace"
)

// FindSectionName looks for a section reference "<<name>>" on the line of s
// starting at i. It returns the offsets of "<<" and ">>".
func FindSectionName(s string, i int) (bool, int, int) {
	end := len(s)
	if k := strings.IndexByte(s[i:], '\n'); k >= 0 {
		end = i + k
	}
	line := s[i:end]
	n1 := strings.Index(line, "<<")
	if n1 < 0 {
		return false, -1, -1
	}
	n2 := strings.Index(line[n1+2:], ">>")
	if n2 < 0 {
		return false, -1, -1
	}
	return true, i + n1, i + n1 + 2 + n2
}

// IsSectionDefinition reports whether a headline names a section, i.e.
// starts with "<<" after optional whitespace and closes it on the same line.
func IsSectionDefinition(headline string) bool {
	i := whitespace.SkipWS(headline, 0)
	if !strings.HasPrefix(headline[i:], "<<") {
		return false
	}
	return strings.Contains(headline[i+2:], ">>")
}

// MatchHeadline reports whether headline starts with pattern, ignoring case
// and blanks.
func MatchHeadline(headline, pattern string) bool {
	return strings.HasPrefix(squash(headline), squash(pattern))
}

func squash(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "\t", "").Replace(s)
}

// IsIgnored reports whether a node is excluded from @others expansion and
// section lookup: its headline starts with @ignore or a body line is an
// @ignore directive.
func IsIgnored(headline, body string) bool {
	if MatchWord(headline, 0, "@ignore") {
		return true
	}
	for _, line := range strings.Split(body, "\n") {
		if MatchWord(line, 0, "@ignore") {
			return true
		}
	}
	return false
}

// FileKind names the derived file directive of a headline.
type FileKind string

const (
	// NotAFile marks an ordinary headline.
	NotAFile FileKind = ""
	// AtFile is an "@file <path>" headline.
	AtFile FileKind = "@file"
	// AtThin is an "@thin <path>" headline; it always uses the thin dialect.
	AtThin FileKind = "@thin"
)

// ParseFileHeadline returns the derived file kind and path named by a
// headline such as "@file src/foo.py".
func ParseFileHeadline(headline string) (FileKind, string) {
	h := strings.TrimSpace(headline)
	for _, k := range []FileKind{AtThin, AtFile} {
		if MatchWord(h, 0, string(k)) {
			path := strings.TrimSpace(h[len(k):])
			if path == "" {
				return NotAFile, ""
			}
			return k, path
		}
	}
	return NotAFile, ""
}
