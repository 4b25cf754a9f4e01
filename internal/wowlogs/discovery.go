package wowlogs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// FlavourFile sits next to the Logs directory and names the game flavour
	// on its second line, e.g. "wow" or "wow_classic".
	FlavourFile = ".flavor.info"
	LogPattern  = "WoWCombatLog*.txt"
)

func ReadFlavour(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "..", FlavourFile))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnrecognizedSource, dir, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) == "" {
		return "", fmt.Errorf("%w: %s: %s has no flavour line", ErrUnrecognizedSource, dir, FlavourFile)
	}
	return strings.TrimSpace(lines[1]), nil
}

// FindLatestLog returns the most recently modified combat log in dir. Files
// with equal modification times are ordered by path.
func FindLatestLog(dir string) (string, error) {
	names, err := doublestar.Glob(os.DirFS(dir), LogPattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}

	var (
		latest    string
		latestMod time.Time
	)
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if latest == "" || mod.After(latestMod) || (mod.Equal(latestMod) && path > latest) {
			latest = path
			latestMod = mod
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoCurrentLogFile, dir)
	}
	return latest, nil
}
