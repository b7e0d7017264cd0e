package sentinel

import (
	"fmt"
	"strings"
)

// Kind identifies a sentinel line.
type Kind int

// Sentinel kinds. Paired kinds come in start/end pairs; the rest are
// unpaired and take effect at the point where they appear.
const (
	NotASentinel Kind = iota

	StartLeo
	EndLeo
	StartNode
	EndNode
	StartOthers
	EndOthers
	StartAll
	EndAll
	StartMiddle
	EndMiddle
	StartAt
	EndAt
	StartDoc
	EndDoc

	Comment
	ChangeDelims
	Directive
	Nl
	Nonl
	Clone
	Verbatim
	AfterRef
	SectionRef
)

type kindInfo struct {
	name    string
	keyword string
}

var kindTable = map[Kind]kindInfo{
	NotASentinel: {"not-a-sentinel", ""},
	StartLeo:     {"start-leo", "@+leo"},
	EndLeo:       {"end-leo", "@-leo"},
	StartNode:    {"start-node", "@+node"},
	EndNode:      {"end-node", "@-node"},
	StartOthers:  {"start-others", "@+others"},
	EndOthers:    {"end-others", "@-others"},
	StartAll:     {"start-all", "@+all"},
	EndAll:       {"end-all", "@-all"},
	StartMiddle:  {"start-middle", "@+middle"},
	EndMiddle:    {"end-middle", "@-middle"},
	StartAt:      {"start-at", "@+at"},
	EndAt:        {"end-at", "@-at"},
	StartDoc:     {"start-doc", "@+doc"},
	EndDoc:       {"end-doc", "@-doc"},
	Comment:      {"comment", "@comment"},
	ChangeDelims: {"delims", "@delims"},
	Directive:    {"directive", "@@"},
	Nl:           {"nl", "@nl"},
	Nonl:         {"nonl", "@nonl"},
	Clone:        {"clone", "@clone"},
	Verbatim:     {"verbatim", "@verbatim"},
	AfterRef:     {"afterref", "@afterref"},
	SectionRef:   {"section-ref", "@<<"},
}

// keywords maps the "@", optional sign and identifier of a sentinel to its
// kind. Directive and SectionRef have fixed two-character forms and are
// recognized before this lookup.
var keywords = func() map[string]Kind {
	m := make(map[string]Kind)
	for k, info := range kindTable {
		switch k {
		case NotASentinel, Directive, SectionRef:
			continue
		}
		m[info.keyword] = k
	}
	return m
}()

// String returns the kind's name.
func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keyword returns the sentinel keyword, e.g. "@+node".
func (k Kind) Keyword() string {
	return kindTable[k].keyword
}

// IsStart reports whether k opens a region.
func (k Kind) IsStart() bool {
	switch k {
	case StartLeo, StartNode, StartOthers, StartAll, StartMiddle, StartAt, StartDoc:
		return true
	}
	return false
}

// IsEnd reports whether k closes a region.
func (k Kind) IsEnd() bool {
	switch k {
	case EndLeo, EndNode, EndOthers, EndAll, EndMiddle, EndAt, EndDoc:
		return true
	}
	return false
}

// Closer returns the kind that closes a region opened by k, or
// NotASentinel if k does not open a region.
func (k Kind) Closer() Kind {
	if k.IsStart() {
		return k + 1
	}
	return NotASentinel
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, info := range kindTable {
		if info.name == name {
			return k, nil
		}
	}
	return NotASentinel, fmt.Errorf("unknown sentinel kind %q", name)
}

// AllKinds returns every sentinel kind except NotASentinel, in declaration
// order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(kindTable)-1)
	for k := StartLeo; k <= SectionRef; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
