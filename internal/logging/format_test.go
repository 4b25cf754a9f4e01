package logging

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type activityMetadata struct {
	Category string `json:"category"`
	ZoneName string `json:"zoneName"`
	Result   bool   `json:"result"`
}

func TestOrderFields_RawLineAfterIdentityAndError(t *testing.T) {
	fields := map[string]any{
		"line":    Truncate(`ENCOUNTER_START,2537,"Jailer",16,20,2481`),
		"error":   errors.New("combat log line is malformed"),
		"zeta":    1,
		"event":   "ENCOUNTER_START",
		"flavour": "retail",
		"source":  "/wow/_retail_/Logs",
		"alpha":   "x",
	}
	inline, blocks := orderFields(fields)
	want := []string{"source", "flavour", "event", "alpha", "zeta", "error", "line"}
	if strings.Join(inline, ",") != strings.Join(want, ",") {
		t.Fatalf("inline order = %v, want %v", inline, want)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %v", blocks)
	}
}

func TestOrderFields_MetadataRendersAsBlock(t *testing.T) {
	fields := map[string]any{
		"activity": "Mythic+",
		"metadata": activityMetadata{Category: "Mythic+", ZoneName: "Ruby Life Pools"},
		"overrun":  3 * time.Second,
	}
	inline, blocks := orderFields(fields)
	if strings.Join(inline, ",") != "activity,overrun" {
		t.Fatalf("inline = %v", inline)
	}
	if len(blocks) != 1 || blocks[0] != "metadata" {
		t.Fatalf("blocks = %v", blocks)
	}

	out := FormatEventLine(Event{Time: time.Now(), Message: "stopping recording", Fields: fields})
	if !strings.Contains(out, "overrun=3s") {
		t.Fatalf("expected duration inline, got %q", out)
	}
	if !strings.Contains(out, `"zoneName": "Ruby Life Pools"`) {
		t.Fatalf("expected indented metadata block, got %q", out)
	}
	if strings.Index(out, "metadata=") < strings.Index(out, "overrun=") {
		t.Fatalf("expected metadata block after inline fields, got %q", out)
	}
}

func TestBlockValue_RawLineNeverBlock(t *testing.T) {
	if _, ok := blockValue("line", `{"not":"a combat log line"}`); ok {
		t.Fatalf("expected raw line field to stay inline")
	}
	if _, ok := blockValue("status", `500 Internal Server Error: {"message":"failed"}`); ok {
		t.Fatalf("expected status text with a JSON suffix to stay inline")
	}
	if _, ok := blockValue("response", `{"message":"failed"}`); !ok {
		t.Fatalf("expected JSON response body to render as a block")
	}
}

func TestFormatWebhookBody(t *testing.T) {
	if got := FormatWebhookBody([]byte("  ")); got != "<empty>" {
		t.Fatalf("empty body = %q", got)
	}
	if got := FormatWebhookBody([]byte(`"token expired"`)); got != "token expired" {
		t.Fatalf("quoted body = %q", got)
	}
	got := FormatWebhookBody([]byte(`{"event":"stop","activity":{"category":"Raids"}}`))
	if !strings.Contains(got, "\n  \"activity\": {") {
		t.Fatalf("expected indented JSON, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("a\r\nb\nc"); got != "a b c" {
		t.Fatalf("Truncate() = %q", got)
	}
	long := strings.Repeat("SPELL_DAMAGE,", 40)
	got := Truncate(long)
	if len(got) != clipLimit+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("Truncate() length = %d", len(got))
	}
}

func TestLogger_DebugHiddenUntilEnabled(t *testing.T) {
	logger := New(false)
	logger.SetTerminalOutputEnabled(false)

	var seen []string
	unsubscribe := logger.Subscribe(func(ev Event) { seen = append(seen, ev.Message) })

	logger.Debug("hidden")
	logger.SetDebugEnabled(true)
	logger.Debug("shown")
	logger.Info("info")
	unsubscribe()
	logger.Info("after unsubscribe")

	if strings.Join(seen, ",") != "shown,info" {
		t.Fatalf("subscriber saw %v", seen)
	}
}

func TestLogger_TerminalOutput(t *testing.T) {
	var out strings.Builder
	logger := New(false)
	logger.colorize = false
	logger.out = &out

	logger.Info("combat log source locked", Field("source", "/wow/_classic_/Logs"), Field("flavour", "classic"))
	if !strings.Contains(out.String(), "[INFO] combat log source locked source=/wow/_classic_/Logs flavour=classic") {
		t.Fatalf("unexpected terminal output %q", out.String())
	}

	out.Reset()
	logger.SetTerminalOutputEnabled(false)
	logger.Warn("quiet")
	if out.Len() != 0 {
		t.Fatalf("expected no terminal output, got %q", out.String())
	}
}
