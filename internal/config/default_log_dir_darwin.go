//go:build darwin

package config

import "path/filepath"

func DefaultLogDir() string {
	return filepath.Join("/Applications", "World of Warcraft", "_retail_", "Logs")
}
