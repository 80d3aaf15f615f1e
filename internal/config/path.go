// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
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

// DatabasePath resolves where the key-value database lives: the
// data_dir setting when configured, otherwise ~/.local/share/centsible.
func DatabasePath() string {
	dir := viper.GetString("data_dir")
	if dir == "" {
		dir = "~/.local/share/centsible"
	}
	return filepath.Join(ExpandPath(dir), "centsible.db")
}
