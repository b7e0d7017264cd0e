package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	old := log.Logger
	defer func() { log.Logger = old }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)
			t.Setenv("ATFILE_STATE_DIR", "")

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "atfile", "atfile.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("ATFILE_STATE_DIR", stateDir)

	assert.Equal(t, filepath.Join(stateDir, "atfile.log"), getLogFilePath())
}

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := log.Logger
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = old
		zerolog.SetGlobalLevel(oldLevel)
	})
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	return &buf
}

func TestGetLoggerAddsComponent(t *testing.T) {
	buf := captureGlobal(t)

	logger := GetLogger("atfile.reader")
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"atfile.reader"`)
	assert.Contains(t, buf.String(), "hello")
}

func TestWithFields(t *testing.T) {
	buf := captureGlobal(t)

	logger := WithFields(map[string]interface{}{"file": "foo.py", "errors": 2})
	logger.Info().Msg("test message with fields")

	assert.Contains(t, buf.String(), `"file":"foo.py"`)
	assert.Contains(t, buf.String(), `"errors":2`)
}

func TestLogCommand(t *testing.T) {
	buf := captureGlobal(t)

	LogCommand("write", []string{"outline.yaml"})

	output := buf.String()
	assert.Contains(t, output, "write")
	assert.Contains(t, output, "outline.yaml")
	assert.Contains(t, output, "Executing command")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	captureGlobal(t)
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "batch write")
	assert.Contains(t, buf.String(), "Operation started")

	done()
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), "duration")
}
