package combatlog

import (
	"fmt"
	"strings"
	"time"
)

// LogLine is a lazily parsed combat log line. Only the event type is decoded
// up front; further fields are tokenized as they are requested.
type LogLine struct {
	raw       string
	timestamp string
	tok       tokenizer
	args      []Field
	err       error
}

// NewLogLine splits the timestamp from the body ("<timestamp>  <body>") and
// decodes the event type.
func NewLogLine(raw string) (*LogLine, error) {
	timestamp, body := splitTimestamp(raw)
	line := &LogLine{
		raw:       raw,
		timestamp: timestamp,
		tok:       tokenizer{src: body},
	}
	if err := line.parse(1); err != nil {
		return nil, err
	}
	if len(line.args) == 0 || line.args[0].IsList() || line.args[0].String() == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedLogLine)
	}
	return line, nil
}

func splitTimestamp(raw string) (string, string) {
	idx := strings.Index(raw, "  ")
	if idx < 0 {
		return "", raw
	}
	return raw[:idx], strings.TrimLeft(raw[idx+2:], " ")
}

func (l *LogLine) parse(limit int) error {
	if l.err != nil {
		return l.err
	}
	args, err := l.tok.scan(l.args, limit)
	l.args = args
	if err != nil {
		l.err = err
	}
	return err
}

// Arg returns top-level field i, where field 0 is the event type.
func (l *LogLine) Arg(i int) (Field, error) {
	if i < 0 {
		return Field{}, fmt.Errorf("%w: negative index %d", ErrMissingField, i)
	}
	if i >= len(l.args) {
		if err := l.parse(i + 1); err != nil {
			return Field{}, err
		}
	}
	if i >= len(l.args) {
		return Field{}, fmt.Errorf("%w: index %d, line has %d fields", ErrMissingField, i, len(l.args))
	}
	return l.args[i], nil
}

// Len tokenizes the remainder of the line and returns the field count.
func (l *LogLine) Len() (int, error) {
	if err := l.parse(0); err != nil {
		return len(l.args), err
	}
	return len(l.args), nil
}

func (l *LogLine) Type() string {
	return l.args[0].String()
}

func (l *LogLine) RawTimestamp() string {
	return l.timestamp
}

// Time resolves the line timestamp. Lines without a year take it from now.
func (l *LogLine) Time(now time.Time) (time.Time, error) {
	return ParseTimestamp(l.timestamp, now)
}

func (l *LogLine) Raw() string {
	return l.raw
}

func (l *LogLine) String() string {
	return l.raw
}
