package logging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFileMaxBytes = 5 * 1024 * 1024

// fileSink appends one JSON record per line to session files under the user
// cache dir, starting a new part whenever maxBytes would be exceeded.
type fileSink struct {
	mu         sync.Mutex
	dir        string
	sessionTag string
	maxBytes   int64
	part       int
	file       *os.File
	size       int64
	closed     bool
}

// sinkRecord lifts the combat log source and the activity to the top level so
// a session file can be filtered per log directory without parsing fields.
type sinkRecord struct {
	Time     string         `json:"time"`
	Level    string         `json:"level"`
	Message  string         `json:"message"`
	Source   string         `json:"source,omitempty"`
	Activity string         `json:"activity,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

func DefaultLogDirPath() (string, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "warcraft-recorder", "logs"), nil
}

func newFileSink(maxBytes int64) (*fileSink, error) {
	if maxBytes <= 0 {
		maxBytes = defaultLogFileMaxBytes
	}
	dir, err := DefaultLogDirPath()
	if err != nil {
		return nil, err
	}
	sink := &fileSink{
		dir:        dir,
		sessionTag: time.Now().UTC().Format("20060102-150405"),
		maxBytes:   maxBytes,
	}
	if err := sink.openNextPart(); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *fileSink) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeFileLocked()
}

func (s *fileSink) WriteEvent(event Event) error {
	if s == nil {
		return nil
	}
	line, err := encodeSinkRecord(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	full := s.maxBytes > 0 && s.size > 0 && s.size+int64(len(line)) > s.maxBytes
	if s.file == nil || full {
		if err := s.openNextPart(); err != nil {
			return err
		}
	}
	n, err := s.file.Write(line)
	s.size += int64(n)
	return err
}

func encodeSinkRecord(event Event) ([]byte, error) {
	record := sinkRecord{
		Time:    event.Time.UTC().Format(time.RFC3339Nano),
		Level:   strings.ToUpper(event.Level.String()),
		Message: event.Message,
	}
	for key, value := range event.Fields {
		switch key {
		case "source":
			record.Source = inlineValue(value)
			continue
		case "activity":
			record.Activity = inlineValue(value)
			continue
		}
		if record.Fields == nil {
			record.Fields = make(map[string]any, len(event.Fields))
		}
		record.Fields[key] = sinkValue(value)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}

// sinkValue keeps durations numeric (milliseconds) so overrun and idle
// timings stay comparable across records.
func sinkValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case error:
		return v.Error()
	case time.Duration:
		return v.Milliseconds()
	case slog.Level:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}
	return value
}

func (s *fileSink) closeFileLocked() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.size = 0
	return err
}

func (s *fileSink) openNextPart() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	_ = s.closeFileLocked()
	s.part++
	path := filepath.Join(s.dir, fmt.Sprintf("recorder-%s-%03d.jsonl", s.sessionTag, s.part))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	s.file = f
	s.size = info.Size()
	return nil
}
