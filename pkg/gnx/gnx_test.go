package gnx

import (
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	id, err := Parse("ekr.20260101120000.1")
	require.NoError(t, err)
	assert.Equal(t, "ekr.20260101120000.1", id.String())
	assert.False(t, id.IsZero())

	for _, bad := range []string{"", "a:b", "a b", "a\tb"} {
		_, err := Parse(bad)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidGNX), "input %q", bad)
	}

	var zero ID
	assert.True(t, zero.IsZero())
}

func TestLeoAllocator(t *testing.T) {
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := NewLeoAllocator("ekr").WithClock(func() time.Time { return clock })

	assert.Equal(t, ID("ekr.20260102030405.1"), a.Next())
	assert.Equal(t, ID("ekr.20260102030405.2"), a.Next())

	clock = clock.Add(time.Second)
	assert.Equal(t, ID("ekr.20260102030406.1"), a.Next())
}

func TestLeoAllocatorIsConcurrencySafe(t *testing.T) {
	a := NewLeoAllocator("u")
	seen := sync.Map{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, dup := seen.LoadOrStore(a.Next(), true)
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()
}

func TestSanitizeUser(t *testing.T) {
	assert.Equal(t, "jdoe", sanitizeUser("j.doe"))
	assert.Equal(t, "atfile", sanitizeUser(": ."))
	assert.NotEmpty(t, sanitizeUser(""))
}

func TestNewAllocator(t *testing.T) {
	a, err := NewAllocator("uuid", "")
	require.NoError(t, err)
	id := a.Next()
	_, err = Parse(id.String())
	assert.NoError(t, err)
	assert.NotEqual(t, id, a.Next())

	a, err = NewAllocator("", "me")
	require.NoError(t, err)
	assert.Contains(t, a.Next().String(), "me.")

	_, err = NewAllocator("sequential", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBadOption))
}
