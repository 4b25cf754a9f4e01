package combatlog

import (
	"errors"
	"testing"
	"time"
)

const sampleCombatantInfo = "8/3 22:09:58.548  COMBATANT_INFO,Player-1084-08A89569,0,194,452,3670,2353,0,0,0,111,111,111,0,0,632,632,632,0,345,1193,1193,1193,779,256,(102351,102401,197491,5211,158478,203651,155675),(0,203553,203399,353114),[4,4,[],[(1123),(1124)],[(256,200),(278,200)]],[(188847,265,(),(7578,8151,7899,1472,6646),()),(0,0,(),(),())],[Player-1084-08A89569,768,Player-1084-08A89569,5225],327,33,767,1"

func TestNewLogLineParsesOnlyEventType(t *testing.T) {
	line, err := NewLogLine(sampleCombatantInfo)
	if err != nil {
		t.Fatalf("NewLogLine: %v", err)
	}
	if line.Type() != EventCombatantInfo {
		t.Fatalf("unexpected type %q", line.Type())
	}
	if len(line.args) != 1 {
		t.Fatalf("expected only the event type to be parsed, got %d fields", len(line.args))
	}
	if line.RawTimestamp() != "8/3 22:09:58.548" {
		t.Fatalf("unexpected timestamp %q", line.RawTimestamp())
	}

	guid, err := line.Arg(1)
	if err != nil {
		t.Fatalf("Arg(1): %v", err)
	}
	if guid.String() != "Player-1084-08A89569" {
		t.Fatalf("unexpected guid %q", guid.String())
	}
	if len(line.args) != 2 {
		t.Fatalf("expected lazy parse to stop at 2 fields, got %d", len(line.args))
	}

	spec, err := line.Arg(24)
	if err != nil {
		t.Fatalf("Arg(24): %v", err)
	}
	if n, _ := spec.Int(); n != 256 {
		t.Fatalf("unexpected spec %s", spec)
	}

	talents, err := line.Arg(25)
	if err != nil {
		t.Fatalf("Arg(25): %v", err)
	}
	if !talents.IsList() || len(talents.List()) != 7 {
		t.Fatalf("unexpected talents %s", talents)
	}

	total, err := line.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if total != 34 {
		t.Fatalf("expected 34 fields, got %d", total)
	}
}

func TestLogLineArgOutOfRange(t *testing.T) {
	line, err := NewLogLine("8/3 22:12:14.889  ARENA_MATCH_END,0,8,1673,1668")
	if err != nil {
		t.Fatalf("NewLogLine: %v", err)
	}
	if _, err := line.Arg(5); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	mmr, err := line.Arg(4)
	if err != nil {
		t.Fatalf("Arg(4): %v", err)
	}
	if mmr.String() != "1668" {
		t.Fatalf("unexpected mmr %s", mmr)
	}
}

func TestLogLineMalformedTailIsReportedOnAccess(t *testing.T) {
	line, err := NewLogLine("8/3 22:12:14.889  EVENT,a,(b,c")
	if err != nil {
		t.Fatalf("NewLogLine: %v", err)
	}
	if _, err := line.Arg(2); !errors.Is(err, ErrMalformedLogLine) {
		t.Fatalf("expected ErrMalformedLogLine, got %v", err)
	}
	if _, err := line.Arg(1); err != nil {
		t.Fatalf("already parsed field should stay readable: %v", err)
	}
}

func TestNewLogLineRejectsEmptyBody(t *testing.T) {
	if _, err := NewLogLine("8/3 22:12:14.889  "); !errors.Is(err, ErrMalformedLogLine) {
		t.Fatalf("expected ErrMalformedLogLine, got %v", err)
	}
}

func TestNewLogLineToleratesExtraSpaces(t *testing.T) {
	line, err := NewLogLine("8/3 22:12:14.889    ZONE_CHANGE,2547,\"Enigma Crucible\",0")
	if err != nil {
		t.Fatalf("NewLogLine: %v", err)
	}
	if line.Type() != EventZoneChange {
		t.Fatalf("unexpected type %q", line.Type())
	}
}

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2022, time.December, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseTimestamp("8/3 22:09:58.548", now)
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	want := time.Date(2022, time.August, 3, 22, 9, 58, 548*int(time.Millisecond), time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	got, err = ParseTimestamp("11/17/2024 20:16:41.1234-5", now)
	if err != nil {
		t.Fatalf("ParseTimestamp with year: %v", err)
	}
	want = time.Date(2024, time.November, 17, 20, 16, 41, 123400000, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	now := time.Now()
	for _, value := range []string{"", "8/3", "13/3 22:09:58.548", "8/3 22:09", "a/b 1:2:3"} {
		if _, err := ParseTimestamp(value, now); !errors.Is(err, ErrBadTimestamp) {
			t.Fatalf("%q: expected ErrBadTimestamp, got %v", value, err)
		}
	}
}
