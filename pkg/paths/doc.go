// Package paths provides centralized path handling for atfile.
// It follows the XDG Base Directory conventions for the user
// configuration file and the log file.
package paths
