package logging

import (
	"encoding/json"
	"strings"
)

// FormatEventLine renders a record as a single plain-text line followed by any
// JSON blocks, for terminals without color support.
func FormatEventLine(event Event) string {
	var b strings.Builder
	b.WriteString(event.Time.Format("15:04:05"))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(event.Level.String()))
	b.WriteString("] ")
	b.WriteString(event.Message)

	inline, blocks := orderFields(event.Fields)
	for _, key := range inline {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(inlineValue(event.Fields[key]))
	}
	b.WriteString("\n")
	for _, key := range blocks {
		body, _ := blockValue(key, event.Fields[key])
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString("=\n")
		for _, row := range strings.Split(body, "\n") {
			b.WriteString("    ")
			b.WriteString(row)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatWebhookBody prepares a webhook request or response body for logging.
// JSON bodies are indented; a body that is itself a JSON string is unquoted.
func FormatWebhookBody(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "<empty>"
	}
	var quoted string
	if err := json.Unmarshal([]byte(trimmed), &quoted); err == nil {
		trimmed = strings.TrimSpace(quoted)
	}
	if indented, ok := indentJSONContainer([]byte(trimmed)); ok {
		return indented
	}
	return Truncate(trimmed)
}
