package wowlogs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/runctx"
)

const defaultPollInterval = time.Second

func NewMonitor(opts MonitorOptions, logger *logging.Logger, callbacks MonitorCallbacks) *Monitor {
	if logger == nil {
		panic("wowlogs.NewMonitor: logger must not be nil")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Monitor{
		opts:      opts,
		logger:    logger,
		callbacks: callbacks,
		sources:   map[string]*watchedSource{},
	}
}

// WatchPath starts watching a combat log directory. Watching a directory that
// is already watched replaces its state.
func (m *Monitor) WatchPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	abs = filepath.Clean(abs)

	flavour, err := ReadFlavour(abs)
	if err != nil {
		m.logger.Warn("not watching log directory", logging.Field("path", abs), logging.Field("error", err))
		return err
	}

	m.mu.Lock()
	var changes []trackChange
	if existing, ok := m.sources[abs]; ok {
		changes = append(changes, m.untrackLocked(existing)...)
	}
	m.sources[abs] = &watchedSource{path: abs, flavour: flavour}
	m.addWatchLocked(abs)
	m.mu.Unlock()

	m.notify(changes)
	m.logger.Info("watching log directory", logging.Field("path", abs), logging.Field("flavour", flavour))
	return nil
}

func (m *Monitor) UnwatchPath(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	abs = filepath.Clean(abs)

	m.mu.Lock()
	src, ok := m.sources[abs]
	var changes []trackChange
	if ok {
		changes = m.removeLocked(src)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	m.notify(changes)
	m.logger.Info("stopped watching log directory", logging.Field("path", abs))
}

func (m *Monitor) UnwatchAll() {
	m.mu.Lock()
	var changes []trackChange
	for _, src := range m.sources {
		changes = append(changes, m.removeLocked(src)...)
	}
	m.mu.Unlock()
	m.notify(changes)
}

func (m *Monitor) Sources() []Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Source, 0, len(m.sources))
	for _, src := range m.sources {
		out = append(out, Source{Path: src.path, Flavour: src.flavour, CurrentFile: src.currentFile()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// RunContext forwards new lines from every watched directory to out until ctx
// is done. Directory notifications only wake the loop early; the poll ticker
// still picks up anything they miss.
func (m *Monitor) RunContext(ctx context.Context, out chan<- Line) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	m.mu.Lock()
	m.watcher = watcher
	for path := range m.sources {
		m.addWatchLocked(path)
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.watcher = nil
		m.mu.Unlock()
	}()

	m.logger.Debug("starting log monitor", logging.Field("poll_interval", m.opts.PollInterval))
	if !m.emit(ctx, out, m.poll(true)) {
		return nil
	}

	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		var lines []Line
		select {
		case <-ctx.Done():
			m.logger.Debug("stopping log monitor: context canceled")
			return nil
		case event := <-watcher.Events:
			lines = m.handleWatcherEvent(event)
		case err := <-watcher.Errors:
			m.handleWatcherError(err)
		case <-ticker.C:
			lines = m.poll(true)
		}
		if !m.emit(ctx, out, lines) {
			return nil
		}
	}
}

func (m *Monitor) emit(ctx context.Context, out chan<- Line, lines []Line) bool {
	for _, line := range lines {
		if !runctx.SendOrDone(ctx, "log monitor", m.logger, out, line) {
			return false
		}
	}
	return true
}

func (m *Monitor) handleWatcherEvent(event fsnotify.Event) []Line {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return nil
	}
	if match, _ := filepath.Match(LogPattern, filepath.Base(event.Name)); !match {
		return nil
	}
	// Plain writes to a file already being tailed skip rediscovery.
	return m.poll(event.Op != fsnotify.Write || !m.isCurrentFile(event.Name))
}

func (m *Monitor) handleWatcherError(err error) {
	if err == nil {
		return
	}
	m.logger.Warn("watcher error", logging.Field("error", err))
	if m.callbacks.OnError != nil {
		m.callbacks.OnError(err)
	}
}

func (m *Monitor) isCurrentFile(path string) bool {
	clean := filepath.Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, src := range m.sources {
		if src.currentFile() == clean {
			return true
		}
	}
	return false
}

// poll optionally re-selects the newest file per source, then reads new
// lines from every current file. Sources are visited in path order.
func (m *Monitor) poll(discover bool) []Line {
	m.mu.Lock()
	paths := make([]string, 0, len(m.sources))
	for path := range m.sources {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var (
		lines   []Line
		changes []trackChange
	)
	for _, path := range paths {
		src := m.sources[path]
		if discover {
			drained, switched := m.selectLatestLocked(src)
			lines = append(lines, drained...)
			changes = append(changes, switched...)
		}
		read, dropped := m.readLocked(src)
		lines = append(lines, read...)
		changes = append(changes, dropped...)
	}
	m.mu.Unlock()

	m.notify(changes)
	return lines
}

// selectLatestLocked switches src to the newest log in its directory. The
// previous file is drained first and the new one is tailed from its end.
func (m *Monitor) selectLatestLocked(src *watchedSource) ([]Line, []trackChange) {
	latest, err := FindLatestLog(src.path)
	if err != nil {
		if !errors.Is(err, ErrNoCurrentLogFile) {
			m.logger.Debug("log directory unreadable", logging.Field("path", src.path), logging.Field("error", err))
		}
		return nil, nil
	}
	if latest == src.currentFile() {
		return nil, nil
	}

	var (
		lines   []Line
		changes []trackChange
	)
	if src.tailer != nil {
		lines, changes = m.readLocked(src)
		changes = append(changes, m.untrackLocked(src)...)
	}

	tailer := &Tailer{Path: latest}
	if err := tailer.Prime(); err != nil {
		m.logger.Debug("failed to prime combat log", logging.Field("path", latest), logging.Field("error", err))
		return lines, changes
	}
	src.tailer = tailer
	m.logger.Info("tracking combat log", logging.Field("source", src.path), logging.Field("path", latest))
	changes = append(changes, trackChange{source: src.path, file: latest, tracked: true})
	return lines, changes
}

func (m *Monitor) readLocked(src *watchedSource) ([]Line, []trackChange) {
	if src.tailer == nil {
		return nil, nil
	}
	texts, err := src.tailer.ReadNewLines()
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Info("combat log removed", logging.Field("path", src.tailer.Path))
			return nil, m.untrackLocked(src)
		}
		m.logger.Debug("failed to read combat log", logging.Field("path", src.tailer.Path), logging.Field("error", err))
		return nil, nil
	}
	lines := make([]Line, 0, len(texts))
	for _, text := range texts {
		lines = append(lines, Line{Source: src.path, Flavour: src.flavour, Path: src.tailer.Path, Text: text})
	}
	return lines, nil
}

func (m *Monitor) untrackLocked(src *watchedSource) []trackChange {
	if src.tailer == nil {
		return nil
	}
	file := src.tailer.Path
	src.tailer = nil
	return []trackChange{{source: src.path, file: file}}
}

func (m *Monitor) removeLocked(src *watchedSource) []trackChange {
	changes := m.untrackLocked(src)
	delete(m.sources, src.path)
	if m.watcher != nil {
		_ = m.watcher.Remove(src.path)
	}
	return changes
}

func (m *Monitor) addWatchLocked(path string) {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Add(path); err != nil {
		m.logger.Debug("directory notifications unavailable, polling only", logging.Field("path", path), logging.Field("error", err))
	}
}

func (m *Monitor) notify(changes []trackChange) {
	for _, change := range changes {
		if change.tracked {
			if m.callbacks.OnTracked != nil {
				m.callbacks.OnTracked(change.source, change.file)
			}
			continue
		}
		if m.callbacks.OnUntracked != nil {
			m.callbacks.OnUntracked(change.source, change.file)
		}
	}
}
