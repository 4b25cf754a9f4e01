package render

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncateDisplayWidth(t *testing.T) {
	if got := TruncateDisplayWidth("Enigma Crucible", 6); got != "Enigm…" {
		t.Fatalf("TruncateDisplayWidth() = %q", got)
	}
	if got := TruncateDisplayWidth("2v2", 6); got != "2v2" {
		t.Fatalf("short values must be kept, got %q", got)
	}
	if got := TruncateDisplayWidth("abc", 0); got != "" {
		t.Fatalf("zero width = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	got := PadRight("\x1b[1mWin\x1b[0m", 6)
	if ansi.StringWidth(got) != 6 {
		t.Fatalf("PadRight() width = %d (%q)", ansi.StringWidth(got), got)
	}
	if w := ansi.StringWidth(PadRight("Castle Nathria", 8)); w != 8 {
		t.Fatalf("PadRight() truncated width = %d", w)
	}
}

func TestClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                              "0:00",
		139 * time.Second:              "2:19",
		time.Hour + 2*time.Second:      "1:00:02",
		-5 * time.Second:               "0:00",
		24*time.Minute + 1*time.Second: "24:01",
	}
	for d, want := range cases {
		if got := Clock(d); got != want {
			t.Fatalf("Clock(%v) = %q, want %q", d, got, want)
		}
	}
}
