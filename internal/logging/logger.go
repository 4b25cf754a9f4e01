package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger fans every record out to the rotating JSONL sink, the terminal and any
// subscribers. Debug records always reach the sink; the terminal and subscribers
// only see them while debug output is enabled.
type Logger struct {
	debugEnabled atomic.Bool
	terminalOut  atomic.Bool
	colorize     bool
	out          io.Writer

	mu          sync.RWMutex
	sink        *fileSink
	nextID      int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(Event)
}

type Event struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Fields  map[string]any
}

func New(debug bool) *Logger {
	l := &Logger{
		colorize: terminalSupportsColor(),
		out:      os.Stderr,
	}
	l.debugEnabled.Store(debug)
	l.terminalOut.Store(true)
	return l
}

func Field(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func (l *Logger) SetDebugEnabled(enabled bool) {
	if l != nil {
		l.debugEnabled.Store(enabled)
	}
}

func (l *Logger) SetTerminalOutputEnabled(enabled bool) {
	if l != nil {
		l.terminalOut.Store(enabled)
	}
}

// EnableFilePersistence starts a new session of rotating log files, closing
// the previous session if one was open.
func (l *Logger) EnableFilePersistence(maxBytes int64) error {
	if l == nil {
		return nil
	}
	sink, err := newFileSink(maxBytes)
	if err != nil {
		return err
	}
	l.mu.Lock()
	previous := l.sink
	l.sink = sink
	l.mu.Unlock()
	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	sink := l.sink
	l.sink = nil
	l.mu.Unlock()
	if sink == nil {
		return nil
	}
	return sink.Close()
}

func (l *Logger) Debug(msg string, fields ...slog.Attr) {
	l.record(slog.LevelDebug, msg, fields)
}

func (l *Logger) Info(msg string, fields ...slog.Attr) {
	l.record(slog.LevelInfo, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...slog.Attr) {
	l.record(slog.LevelWarn, msg, fields)
}

func (l *Logger) Error(msg string, fields ...slog.Attr) {
	l.record(slog.LevelError, msg, fields)
}

// Subscribe registers fn for every visible record and returns a function that
// removes it again.
func (l *Logger) Subscribe(fn func(Event)) func() {
	if l == nil {
		panic("logging.Logger.Subscribe: logger must not be nil")
	}
	if fn == nil {
		panic("logging.Logger.Subscribe: callback must not be nil")
	}
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subscribers = append(l.subscribers, subscriber{id: id, fn: fn})
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, sub := range l.subscribers {
			if sub.id == id {
				l.subscribers = append(l.subscribers[:i:i], l.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (l *Logger) record(level slog.Level, msg string, attrs []slog.Attr) {
	if l == nil {
		return
	}
	event := Event{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  collectFields(attrs),
	}

	l.mu.RLock()
	sink := l.sink
	subs := make([]func(Event), 0, len(l.subscribers))
	for _, sub := range l.subscribers {
		subs = append(subs, sub.fn)
	}
	l.mu.RUnlock()

	if sink != nil {
		_ = sink.WriteEvent(event)
	}
	if level <= slog.LevelDebug && !l.debugEnabled.Load() {
		return
	}
	if l.terminalOut.Load() {
		l.writeTerminal(event)
	}
	for _, fn := range subs {
		fn(event)
	}
}

func (l *Logger) writeTerminal(event Event) {
	text := FormatEventLine(event)
	if l.colorize {
		text = FormatEventANSI(event)
	}
	_, _ = io.WriteString(l.out, text)
}
