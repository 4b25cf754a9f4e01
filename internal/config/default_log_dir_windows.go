//go:build windows

package config

import (
	"os"
	"path/filepath"
)

func DefaultLogDir() string {
	root := os.Getenv("ProgramFiles(x86)")
	if root == "" {
		root = `C:\Program Files (x86)`
	}
	return filepath.Join(root, "World of Warcraft", "_retail_", "Logs")
}
