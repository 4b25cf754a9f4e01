//go:build linux

package config

import (
	"os"
	"path/filepath"
)

// DefaultLogDir points at the usual compatibility-layer prefix.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Games", "world-of-warcraft", "drive_c", "Program Files (x86)", "World of Warcraft", "_retail_", "Logs")
}
