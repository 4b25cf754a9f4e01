package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"
)

const clipLimit = 240

// rawLineKey holds a clipped combat log line. It is always rendered after the
// other inline fields so the interesting columns stay readable.
const rawLineKey = "line"

// leadingKeys name where a record came from and what it is about, in the order
// they are printed.
var leadingKeys = []string{
	"source",
	"flavour",
	"activity",
	"category",
	"event",
	"encounter",
	"encounter_id",
	"unit",
	"guid",
	"result",
	"status",
	"path",
}

// Truncate flattens a raw line onto one row and clips it for log output.
func Truncate(value string) string {
	value = strings.TrimSpace(value)
	value = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(value)
	if value == "" {
		return "<empty>"
	}
	if len(value) > clipLimit {
		return value[:clipLimit] + "..."
	}
	return value
}

func collectFields(attrs []slog.Attr) map[string]any {
	fields := map[string]any{}
	for _, attr := range attrs {
		if attr.Key == "" {
			continue
		}
		fields[attr.Key] = attrValue(attr.Value)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func attrValue(value slog.Value) any {
	value = value.Resolve()
	if value.Kind() != slog.KindGroup {
		return value.Any()
	}
	group := map[string]any{}
	for _, attr := range value.Group() {
		if attr.Key != "" {
			group[attr.Key] = attrValue(attr.Value)
		}
	}
	return group
}

// orderFields returns the inline keys (leading keys first, then the rest
// alphabetically, then error and the raw line) followed by the keys whose
// values render as indented JSON blocks.
func orderFields(fields map[string]any) (inline []string, blocks []string) {
	rank := make(map[string]int, len(leadingKeys))
	for i, key := range leadingKeys {
		rank[key] = i
	}
	tail := func(key string) int {
		switch key {
		case "error":
			return 1
		case rawLineKey:
			return 2
		}
		return 0
	}

	for key, value := range fields {
		if _, ok := blockValue(key, value); ok {
			blocks = append(blocks, key)
			continue
		}
		inline = append(inline, key)
	}
	sort.Slice(inline, func(i, j int) bool {
		a, b := inline[i], inline[j]
		if ta, tb := tail(a), tail(b); ta != tb {
			return ta < tb
		}
		ra, aLeading := rank[a]
		rb, bLeading := rank[b]
		switch {
		case aLeading && bLeading:
			return ra < rb
		case aLeading != bLeading:
			return aLeading
		}
		return a < b
	})
	sort.Strings(blocks)
	return inline, blocks
}

// blockValue renders structured values (activity metadata, webhook bodies) as
// indented JSON. Raw combat log lines and plain scalars stay inline.
func blockValue(key string, value any) (string, bool) {
	if key == rawLineKey || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return indentJSONContainer([]byte(v))
	case []byte:
		return indentJSONContainer(v)
	case error, fmt.Stringer:
		return "", false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(value); err != nil {
			return "", false
		}
		return strings.TrimSpace(buf.String()), true
	}
	return "", false
}

// indentJSONContainer accepts only whole JSON objects or arrays so status text
// with a JSON suffix is left alone.
func indentJSONContainer(raw []byte) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}

func inlineValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return fmt.Sprint(value)
}
