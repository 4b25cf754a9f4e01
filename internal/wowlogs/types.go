package wowlogs

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"warcraft-recorder/internal/logging"
)

type Monitor struct {
	opts      MonitorOptions
	logger    *logging.Logger
	callbacks MonitorCallbacks

	mu      sync.Mutex
	sources map[string]*watchedSource
	watcher *fsnotify.Watcher
}

type MonitorOptions struct {
	PollInterval time.Duration
}

// MonitorCallbacks run on the monitor goroutine after its internal lock has
// been released.
type MonitorCallbacks struct {
	OnError     func(error)
	OnTracked   func(source, file string)
	OnUntracked func(source, file string)
}

// Line is one complete combat log line read from the current file of a
// watched directory.
type Line struct {
	Source  string
	Flavour string
	Path    string
	Text    string
}

// Source is a snapshot of a watched directory.
type Source struct {
	Path        string
	Flavour     string
	CurrentFile string
}

type Tailer struct {
	Path    string
	Offset  int64
	pending []byte
}

type watchedSource struct {
	path    string
	flavour string
	tailer  *Tailer
}

func (s *watchedSource) currentFile() string {
	if s.tailer == nil {
		return ""
	}
	return s.tailer.Path
}

type trackChange struct {
	source  string
	file    string
	tracked bool
}
