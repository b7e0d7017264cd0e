package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/atfile/pkg/atfile"
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ATFILE_CONFIG_DIR", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		isolate(t)
		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, -4, cfg.Codec.TabWidth)
		assert.Equal(t, 132, cfg.Codec.PageWidth)
		assert.Equal(t, "nl", cfg.Codec.OutputNewline)
		assert.Equal(t, "utf-8", cfg.Codec.Encoding)
		assert.Equal(t, "thin", cfg.Codec.Dialect)
		assert.Equal(t, "leo", cfg.Codec.GnxStyle)
		assert.Equal(t, 4, cfg.Batch.Concurrency)
		assert.Empty(t, cfg.Languages)
	})

	t.Run("user_file", func(t *testing.T) {
		dir := isolate(t)
		writeFile(t, filepath.Join(dir, "config.toml"), `
[codec]
tab_width = 8
dialect = "thick"

[languages.nim]
delims = "#"
extensions = ["nim"]
`)
		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Codec.TabWidth)
		assert.Equal(t, "thick", cfg.Codec.Dialect)
		assert.Equal(t, 132, cfg.Codec.PageWidth, "untouched keys keep their defaults")
		assert.Equal(t, LanguageConfig{Delims: "#", Extensions: []string{"nim"}}, cfg.Languages["nim"])
	})

	t.Run("explicit_yaml_file", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "atfile.yaml")
		writeFile(t, path, "codec:\n  page_width: 72\nbatch:\n  concurrency: 2\n")

		cfg, err := Load(LoadOptions{File: path})
		require.NoError(t, err)
		assert.Equal(t, 72, cfg.Codec.PageWidth)
		assert.Equal(t, 2, cfg.Batch.Concurrency)
	})

	t.Run("missing_explicit_file", func(t *testing.T) {
		isolate(t)
		_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml")})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad), "got %v", err)
	})

	t.Run("malformed_file", func(t *testing.T) {
		dir := isolate(t)
		writeFile(t, filepath.Join(dir, "config.toml"), "[codec\n")
		_, err := Load(LoadOptions{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse), "got %v", err)
	})

	t.Run("environment_beats_file", func(t *testing.T) {
		dir := isolate(t)
		writeFile(t, filepath.Join(dir, "config.toml"), "[codec]\npage_width = 100\n")
		t.Setenv("ATFILE_CODEC_PAGE_WIDTH", "80")
		t.Setenv("ATFILE_CODEC_STRIP_BLANK_LINES", "true")

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, 80, cfg.Codec.PageWidth)
		assert.True(t, cfg.Codec.StripBlankLines)
	})

	t.Run("overrides_beat_environment", func(t *testing.T) {
		isolate(t)
		t.Setenv("ATFILE_CODEC_ENCODING", "latin-1")

		cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
			"codec.encoding": "utf-16",
			"codec.dialect":  "thick",
		}})
		require.NoError(t, err)
		assert.Equal(t, "utf-16", cfg.Codec.Encoding)
		assert.Equal(t, "thick", cfg.Codec.Dialect)
	})

	t.Run("invalid_values", func(t *testing.T) {
		tests := []struct {
			name, key string
			value     interface{}
		}{
			{"zero_tab_width", "codec.tab_width", 0},
			{"bad_newline", "codec.output_newline", "lf-cr"},
			{"bad_dialect", "codec.dialect", "medium"},
			{"bad_gnx_style", "codec.gnx_style", "serial"},
			{"no_concurrency", "batch.concurrency", 0},
			{"bad_file_mode", "codec.file_mode", "rw-r--r--"},
			{"file_mode_out_of_range", "codec.file_mode", "1777"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				isolate(t)
				_, err := Load(LoadOptions{Overrides: map[string]interface{}{tt.key: tt.value}})
				assert.True(t, errors.IsErrorCode(err, errors.ErrBadOption), "got %v", err)
			})
		}
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "codec.tab_width", envKey("ATFILE_CODEC_TAB_WIDTH"))
	assert.Equal(t, "batch.concurrency", envKey("ATFILE_BATCH_CONCURRENCY"))
}

func TestCodecOptions(t *testing.T) {
	isolate(t)
	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
		"codec.output_newline": "crlf",
		"codec.dialect":        "thick",
		"codec.gnx_style":      "uuid",
		"languages.nim":        map[string]interface{}{"delims": "#", "extensions": []string{"nim"}},
	}})
	require.NoError(t, err)

	opts, err := cfg.CodecOptions(filesystem.NewAferoFS(afero.NewMemMapFs()))
	require.NoError(t, err)
	assert.Equal(t, "\r\n", opts.Newline)
	assert.Equal(t, atfile.Thick, opts.Dialect)
	assert.Equal(t, 4, opts.Concurrency)
	assert.NotNil(t, opts.Replacer)
	assert.NotEmpty(t, opts.Allocator.Next())

	lang, ok := opts.Languages.ForPath("main.nim")
	require.True(t, ok)
	assert.Equal(t, "nim", lang.Name)

	_, err = atfile.NewCodec(opts)
	assert.NoError(t, err)
}

func TestCodecOptionsFileMode(t *testing.T) {
	isolate(t)
	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{"codec.file_mode": "0600"}})
	require.NoError(t, err)

	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	opts, err := cfg.CodecOptions(fsys)
	require.NoError(t, err)

	_, err = opts.Replacer.Replace(context.Background(), "/out/foo.py", []byte("x\n"))
	require.NoError(t, err)
	info, err := fsys.Stat("/out/foo.py")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())
}

func TestPerm(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want fs.FileMode
	}{
		{"default", "", 0644},
		{"private", "0600", 0600},
		{"without_leading_zero", "755", 0755},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CodecConfig{FileMode: tt.mode}.Perm()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLanguageDelims(t *testing.T) {
	cfg := &Config{
		Codec: CodecConfig{TabWidth: -4, PageWidth: 132, OutputNewline: "nl", Dialect: "thin"},
		Batch: BatchConfig{Concurrency: 1},
		Languages: map[string]LanguageConfig{
			"broken": {Delims: "_"},
		},
	}
	err := cfg.Validate()
	assert.True(t, errors.IsErrorCode(err, errors.ErrBadDelimiter), "got %v", err)
}

func TestTOMLReloads(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ATFILE_CODEC_TAB_WIDTH", "8")
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	data, err := cfg.TOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tab_width = 8")

	path := filepath.Join(dir, "saved.toml")
	writeFile(t, path, string(data))
	require.NoError(t, os.Unsetenv("ATFILE_CODEC_TAB_WIDTH"))
	again, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, cfg.Codec, again.Codec)
	assert.Equal(t, cfg.Batch, again.Batch)
}
