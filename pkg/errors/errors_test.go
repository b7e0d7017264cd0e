// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "bad_delimiter_error",
			code:    errors.ErrBadDelimiter,
			message: "empty comment delimiter",
			wantStr: "[BAD_DELIMITER] empty comment delimiter",
		},
		{
			name:    "bad_header_error",
			code:    errors.ErrBadHeader,
			message: "missing @+leo sentinel",
			wantStr: "[BAD_HEADER] missing @+leo sentinel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrBadEncoding, "unknown encoding %q", "klingon")
	assert.Equal(t, `unknown encoding "klingon"`, err.Message)
	assert.Equal(t, errors.ErrBadEncoding, err.Code)
}

func TestWrap(t *testing.T) {
	t.Run("wraps_cause", func(t *testing.T) {
		cause := fmt.Errorf("disk full")
		err := errors.Wrap(cause, errors.ErrFileWrite, "cannot write foo.py")
		require.NotNil(t, err)

		assert.Equal(t, "[FILE_WRITE] cannot write foo.py: disk full", err.Error())
		assert.True(t, stderrors.Is(err, cause))
		assert.Equal(t, cause, stderrors.Unwrap(err))
	})

	t.Run("nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrFileWrite, "unused"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrFileWrite, "unused %d", 1))
	})

	t.Run("wrapf_formats", func(t *testing.T) {
		err := errors.Wrapf(fmt.Errorf("boom"), errors.ErrReplace, "replace %s", "a.txt")
		assert.Equal(t, "replace a.txt", err.Message)
	})
}

func TestIsComparesCodes(t *testing.T) {
	a := errors.New(errors.ErrBadHeader, "one")
	b := errors.New(errors.ErrBadHeader, "two")
	c := errors.New(errors.ErrBadEncoding, "three")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrFileRead, "read failed").
		WithDetail("path", "foo.py").
		WithDetails(map[string]interface{}{"line": 3})

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "foo.py", details["path"])
	assert.Equal(t, 3, details["line"])
	assert.Nil(t, errors.GetErrorDetails(fmt.Errorf("plain")))
}

func TestErrorCodeHelpers(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", errors.New(errors.ErrBadDelimiter, "inner"))

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrBadDelimiter))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrFileRead))
	assert.Equal(t, errors.ErrBadDelimiter, errors.GetErrorCode(wrapped))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
}

func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bad_delimiter", errors.New(errors.ErrBadDelimiter, "x"), true},
		{"bad_encoding", errors.New(errors.ErrBadEncoding, "x"), true},
		{"bad_header", errors.New(errors.ErrBadHeader, "x"), true},
		{"file_write", errors.New(errors.ErrFileWrite, "x"), false},
		{"plain", fmt.Errorf("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.IsConfigError(tt.err))
		})
	}
}
