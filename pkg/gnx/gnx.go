// Package gnx defines global node indices: opaque identifiers that name one
// logical outline node independently of where it appears in the tree. Every
// clone of a node shares its ID.
package gnx

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/google/uuid"
)

// ID is a global node index. The zero value means "not yet assigned".
type ID string

// Parse validates s as an ID. IDs are written into node sentinels before a
// ':' separator, so they must not contain ':' or whitespace.
func Parse(s string) (ID, error) {
	if s == "" {
		return "", errors.New(errors.ErrInvalidGNX, "empty gnx")
	}
	if strings.ContainsRune(s, ':') {
		return "", errors.Newf(errors.ErrInvalidGNX, "gnx %q contains ':'", s)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", errors.Newf(errors.ErrInvalidGNX, "gnx %q contains whitespace", s)
	}
	return ID(s), nil
}

// String returns the textual form of id.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether id is unassigned.
func (id ID) IsZero() bool {
	return id == ""
}

// Allocator hands out fresh IDs. Implementations must be safe for
// concurrent use.
type Allocator interface {
	Next() ID
}

// LeoAllocator produces IDs of the form "<user>.<YYYYMMDDhhmmss>.<n>",
// where n restarts at 1 whenever the timestamp changes.
type LeoAllocator struct {
	user string
	now  func() time.Time

	mu    sync.Mutex
	stamp string
	n     int
}

// NewLeoAllocator returns a LeoAllocator for user. An empty user falls back
// to the login name, then to "atfile".
func NewLeoAllocator(userID string) *LeoAllocator {
	return &LeoAllocator{user: sanitizeUser(userID), now: time.Now}
}

// WithClock replaces the time source, for deterministic IDs.
func (a *LeoAllocator) WithClock(now func() time.Time) *LeoAllocator {
	a.now = now
	return a
}

// Next returns a fresh ID.
func (a *LeoAllocator) Next() ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	stamp := a.now().UTC().Format("20060102150405")
	if stamp != a.stamp {
		a.stamp = stamp
		a.n = 0
	}
	a.n++
	return ID(fmt.Sprintf("%s.%s.%d", a.user, stamp, a.n))
}

// UUIDAllocator produces random UUID-based IDs.
type UUIDAllocator struct{}

// Next returns a fresh ID.
func (UUIDAllocator) Next() ID {
	return ID(uuid.NewString())
}

// NewAllocator returns the allocator for a configured style: "leo" (the
// default) or "uuid".
func NewAllocator(style, userID string) (Allocator, error) {
	switch strings.ToLower(style) {
	case "", "leo":
		return NewLeoAllocator(userID), nil
	case "uuid":
		return UUIDAllocator{}, nil
	}
	return nil, errors.Newf(errors.ErrBadOption, "unknown gnx style %q", style)
}

func sanitizeUser(s string) string {
	if s == "" {
		if u, err := user.Current(); err == nil {
			s = u.Username
		} else {
			s = os.Getenv("USER")
		}
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "atfile"
	}
	return s
}
