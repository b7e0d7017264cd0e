package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for atfile
	EnvConfigDir = "ATFILE_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for atfile
	EnvStateDir = "ATFILE_STATE_DIR"
)

const (
	// AppDirName is the directory name used under each XDG base directory
	AppDirName = "atfile"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "atfile.log"
)

// Paths resolves the directories atfile reads from and writes to.
type Paths struct {
	configDir string
	stateDir  string
}

// New resolves paths from the environment. The xdg package caches the base
// directories at init, so they are reloaded here to pick up changes made
// after process start.
func New() *Paths {
	xdg.Reload()

	p := &Paths{}
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}
	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = expandHome(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}
	return p
}

// ConfigDir returns the atfile configuration directory
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFilePath returns the path of the user configuration file
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// StateDir returns the atfile state directory
func (p *Paths) StateDir() string {
	return p.stateDir
}

// LogFilePath returns the path of the log file
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
