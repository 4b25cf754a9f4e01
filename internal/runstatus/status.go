package runstatus

import "strings"

const (
	Starting  = "Starting"
	Watching  = "Watching"
	Receiving = "Receiving"
	Recording = "Recording"
	Stopped   = "Stopped"
)

const (
	KeyStarting  = "starting"
	KeyWatching  = "watching"
	KeyReceiving = "receiving"
	KeyRecording = "recording"
	KeyStopped   = "stopped"
)

func Key(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
