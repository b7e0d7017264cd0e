package sentinel

import (
	"strings"

	"github.com/arthur-debert/atfile/pkg/errors"
)

// Delims is the comment delimiter pair sentinels are written with. End is
// empty for single-line comment styles.
type Delims struct {
	Start string
	End   string
}

// NewDelims returns validated delimiters.
func NewDelims(start, end string) (Delims, error) {
	d := Delims{Start: start, End: end}
	return d, d.Validate()
}

// Choose picks sentinel delimiters from a language's comment delimiters.
// The single-line delimiter wins when present, otherwise the block pair is
// used.
func Choose(single, blockStart, blockEnd string) (Delims, error) {
	if single != "" {
		return NewDelims(single, "")
	}
	if blockStart != "" && blockEnd != "" {
		return NewDelims(blockStart, blockEnd)
	}
	return Delims{}, errors.Newf(errors.ErrBadDelimiter,
		"no usable comment delimiters (single=%q start=%q end=%q)", single, blockStart, blockEnd)
}

// Validate checks that the delimiters can introduce sentinels.
func (d Delims) Validate() error {
	if d.Start == "" {
		return errors.New(errors.ErrBadDelimiter, "missing opening comment delimiter")
	}
	if strings.ContainsAny(d.Start, "\r\n") || strings.ContainsAny(d.End, "\r\n") {
		return errors.Newf(errors.ErrBadDelimiter, "comment delimiters %q %q contain a line break", d.Start, d.End)
	}
	if strings.TrimSpace(d.Start) == "" {
		return errors.Newf(errors.ErrBadDelimiter, "blank opening comment delimiter %q", d.Start)
	}
	return nil
}

// IsBlock reports whether the delimiters are a block comment pair.
func (d Delims) IsBlock() bool {
	return d.End != ""
}

// IsCWEB reports whether the opening delimiter ends in '@', in which case
// every '@' of sentinel text after the introducing one is doubled.
func (d Delims) IsCWEB() bool {
	return strings.HasSuffix(d.Start, "@")
}

// String renders the delimiters the way an @delims directive spells them.
func (d Delims) String() string {
	if d.End == "" {
		return d.Start
	}
	return d.Start + " " + d.End
}
