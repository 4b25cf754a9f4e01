package process

import (
	"fmt"
	"strings"
)

// DefaultNames are the game client executables.
var DefaultNames = []string{"Wow.exe", "WowClassic.exe"}

type Checker interface {
	Running() (bool, error)
}

// NameChecker reports whether any process with one of Names is running.
// Names are compared case-insensitively against the executable base name.
type NameChecker struct {
	Names []string
	list  func() ([]string, error)
}

func NewNameChecker(names []string) *NameChecker {
	if len(names) == 0 {
		names = DefaultNames
	}
	return &NameChecker{Names: append([]string(nil), names...), list: listProcessNames}
}

func (c *NameChecker) Running() (bool, error) {
	running, err := c.list()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}
	for _, name := range running {
		base := baseName(name)
		for _, want := range c.Names {
			if strings.EqualFold(base, want) {
				return true, nil
			}
		}
	}
	return false, nil
}

// baseName strips directories using either separator, so Windows paths seen
// through a compatibility layer still match.
func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}
