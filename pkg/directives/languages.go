package directives

import (
	_ "embed"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/sentinel"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/languages.toml
var builtinLanguages []byte

// Language describes the comment conventions of a target language.
type Language struct {
	Name string `toml:"-"`

	// Delims uses the @comment syntax: one token is a single-line
	// delimiter, two tokens a block pair, three tokens a single-line
	// delimiter followed by a block pair.
	Delims     string   `toml:"delims"`
	Extensions []string `toml:"extensions"`
}

// CommentDelims splits Delims into its single-line and block parts.
func (l Language) CommentDelims() (single, start, end string) {
	return ParseCommentDelims(l.Delims)
}

// SentinelDelims returns the delimiters sentinels are written with.
func (l Language) SentinelDelims() (sentinel.Delims, error) {
	d, err := sentinel.Choose(l.CommentDelims())
	if err != nil {
		return d, errors.Wrapf(err, errors.ErrBadDelimiter, "language %q", l.Name)
	}
	return d, nil
}

// Languages is a table of languages keyed by lower-case name.
type Languages struct {
	byName map[string]Language
	byExt  map[string]string
}

// LoadLanguages parses a TOML language table.
func LoadLanguages(data []byte) (*Languages, error) {
	var raw map[string]Language
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse language table")
	}
	l := &Languages{byName: map[string]Language{}, byExt: map[string]string{}}
	l.Merge(raw)
	return l, nil
}

// BuiltinLanguages returns the language table compiled into the binary.
func BuiltinLanguages() *Languages {
	l, err := LoadLanguages(builtinLanguages)
	if err != nil {
		panic(err)
	}
	return l
}

// Merge adds or replaces languages.
func (l *Languages) Merge(langs map[string]Language) {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lang := langs[name]
		key := strings.ToLower(name)
		lang.Name = key
		if old, ok := l.byName[key]; ok && lang.Delims == "" {
			lang.Delims = old.Delims
		}
		l.byName[key] = lang
		for _, ext := range lang.Extensions {
			l.byExt[normalizeExt(ext)] = key
		}
	}
}

// Lookup returns the language with the given name.
func (l *Languages) Lookup(name string) (Language, bool) {
	lang, ok := l.byName[strings.ToLower(strings.TrimSpace(name))]
	return lang, ok
}

// ForPath returns the language associated with the extension of path.
func (l *Languages) ForPath(path string) (Language, bool) {
	name, ok := l.byExt[normalizeExt(filepath.Ext(path))]
	if !ok {
		return Language{}, false
	}
	return l.Lookup(name)
}

// Names returns the known language names in sorted order.
func (l *Languages) Names() []string {
	names := make([]string, 0, len(l.byName))
	for name := range l.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ParseCommentDelims splits the argument of an @comment directive into a
// single-line delimiter and a block pair. With two tokens both belong to
// the block pair. Underscores stand for blanks.
func ParseCommentDelims(s string) (single, start, end string) {
	s = strings.TrimSpace(s)
	if MatchWord(s, 0, "@comment") {
		s = s[len("@comment"):]
	}
	fields := strings.Fields(s)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	for i := range fields {
		fields[i] = strings.ReplaceAll(fields[i], "_", " ")
	}
	switch len(fields) {
	case 1:
		return fields[0], "", ""
	case 2:
		return "", fields[0], fields[1]
	case 3:
		return fields[0], fields[1], fields[2]
	}
	return "", "", ""
}
