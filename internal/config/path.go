// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and $VAR style environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the local store lives unless data.db
// overrides it.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/cltpj/cltpj.db")
}

// DefaultConfigDir is the directory searched for config.yaml.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/cltpj")
}
