package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--format", "text"))
	err := cmd.Execute()
	return out.String(), err
}

// isolate points the config and log directories at a temporary directory
// and returns a working directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ATFILE_CONFIG_DIR", filepath.Join(home, "config"))
	t.Setenv("ATFILE_STATE_DIR", filepath.Join(home, "state"))
	dir := filepath.Join(home, "work")
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

const projectYAML = `
- gnx: r
  headline: "@file foo.py"
  body: "def f():\n    @others\n"
  children:
    - {gnx: c, headline: helper, body: "pass\n"}
`

func TestWriteCheckRead(t *testing.T) {
	dir := isolate(t)
	project := filepath.Join(dir, "project.yaml")
	derived := filepath.Join(dir, "foo.py")
	require.NoError(t, os.WriteFile(project, []byte(projectYAML), 0644))

	out, err := run(t, "write", project)
	require.NoError(t, err)
	assert.Contains(t, out, derived+": created")

	data, err := os.ReadFile(derived)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#@+leo-ver=5-thin\n#@+node:r:@file foo.py\n"))

	out, err = run(t, "check", derived)
	require.NoError(t, err)
	assert.Contains(t, out, derived+": clean")

	out, err = run(t, "read", derived)
	require.NoError(t, err)
	assert.Contains(t, out, "gnx: r")
	assert.Contains(t, out, "@file foo.py")
	assert.Contains(t, out, "headline: helper")

	out, err = run(t, "classify", derived)
	require.NoError(t, err)
	assert.Contains(t, out, "start-leo")
	assert.Contains(t, out, "end-others")
}

func TestWriteFailureExitsWithError(t *testing.T) {
	dir := isolate(t)
	project := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(project, []byte(`
- {gnx: r, headline: "@file bad.py", body: "<<missing>>\n"}
`), 0644))

	out, err := run(t, "write", project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
	assert.Contains(t, out, "undefined section: <<missing>>")
	assert.NoFileExists(t, filepath.Join(dir, "bad.py"))
}

func TestCodecFlagsOverrideConfig(t *testing.T) {
	isolate(t)

	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "tab_width = -4")

	out, err = run(t, "config", "--tab-width", "8", "--dialect", "thick")
	require.NoError(t, err)
	assert.Contains(t, out, "tab_width = 8")
	assert.Contains(t, out, "dialect = 'thick'")

	_, err = run(t, "config", "--dialect", "thicker")
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	isolate(t)
	out, err := run(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "[codec]")
	assert.Contains(t, out, "[batch]")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "atfile version dev")
}

func TestOverrides(t *testing.T) {
	cmd := NewRootCmd()
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--page-width", "80", "--strip-blank-lines"}))
	assert.Equal(t, map[string]interface{}{
		"codec.page_width":        "80",
		"codec.strip_blank_lines": "true",
	}, overrides(cmd))
}
