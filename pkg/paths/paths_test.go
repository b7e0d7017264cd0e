package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHonorsXDG(t *testing.T) {
	configHome := t.TempDir()
	stateHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_STATE_HOME", stateHome)
	t.Setenv(EnvConfigDir, "")
	t.Setenv(EnvStateDir, "")

	p := New()

	assert.Equal(t, filepath.Join(configHome, "atfile"), p.ConfigDir())
	assert.Equal(t, filepath.Join(configHome, "atfile", "config.toml"), p.ConfigFilePath())
	assert.Equal(t, filepath.Join(stateHome, "atfile"), p.StateDir())
	assert.Equal(t, filepath.Join(stateHome, "atfile", "atfile.log"), p.LogFilePath())
}

func TestNewHonorsOverrides(t *testing.T) {
	configDir := t.TempDir()
	stateDir := t.TempDir()
	t.Setenv(EnvConfigDir, configDir)
	t.Setenv(EnvStateDir, stateDir)

	p := New()

	assert.Equal(t, configDir, p.ConfigDir())
	assert.Equal(t, filepath.Join(stateDir, LogFileName), p.LogFilePath())
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde_only", "~", home},
		{"tilde_prefix", "~/atfile", filepath.Join(home, "atfile")},
		{"absolute_untouched", "/etc/atfile", "/etc/atfile"},
		{"tilde_inside_untouched", "/a/~b", "/a/~b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandHome(tt.in))
		})
	}
}
