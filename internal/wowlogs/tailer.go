package wowlogs

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// Prime moves an unread tailer to the current end of its file so only lines
// written from now on are returned.
func (t *Tailer) Prime() error {
	info, err := os.Stat(t.Path)
	if err != nil {
		return err
	}
	if t.Offset == 0 {
		t.Offset = info.Size()
	}
	return nil
}

// ReadNewLines returns the newline-terminated lines appended since the last
// call. A trailing fragment without a newline is held back until it is
// completed. A file that shrank is read again from the start.
func (t *Tailer) ReadNewLines() ([]string, error) {
	file, err := os.Open(t.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if info.Size() < t.Offset {
		t.Offset = 0
		t.pending = nil
	}
	if _, err := file.Seek(t.Offset, io.SeekStart); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return nil, err
	}
	t.Offset += int64(buf.Len())

	raw := buf.Bytes()
	if len(t.pending) > 0 {
		raw = append(t.pending, raw...)
		t.pending = nil
	}

	end := bytes.LastIndexByte(raw, '\n')
	if end < 0 {
		if len(raw) > 0 {
			t.pending = append([]byte(nil), raw...)
		}
		return nil, nil
	}
	if end < len(raw)-1 {
		t.pending = append([]byte(nil), raw[end+1:]...)
	}

	lines := []string{}
	for _, line := range strings.Split(string(raw[:end]), "\n") {
		line = NormalizeLogLine(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func NormalizeLogLine(line string) string {
	line = strings.TrimPrefix(line, "\ufeff")
	return strings.TrimRight(line, "\r")
}
