// Package config loads atfile configuration. Sources are layered in order:
// the embedded defaults, the user config file, ATFILE_ environment
// variables and command line overrides. Later sources win.
package config
