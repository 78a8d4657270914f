// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome resolves a leading "~" or "~/" against the user's home
// directory. Paths without the prefix, and paths like "~user", are
// returned unchanged, as is everything when the home directory is
// unknown.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// ConfigDir returns the per-user connmux config directory
// (~/.config/connmux), or empty when the home directory is unavailable.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "connmux")
}
