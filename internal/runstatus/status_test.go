package runstatus

import "testing"

func TestKey(t *testing.T) {
	for status, want := range map[string]string{
		Watching:    KeyWatching,
		" Recording": KeyRecording,
		Stopped:     KeyStopped,
	} {
		if got := Key(status); got != want {
			t.Fatalf("Key(%q) = %q, want %q", status, got, want)
		}
	}
}
