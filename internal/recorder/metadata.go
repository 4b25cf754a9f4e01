package recorder

import (
	"fmt"
	"time"
)

// Metadata describes one finished activity. Duration is in whole seconds and
// already includes the overrun.
type Metadata struct {
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Flavour       string         `json:"flavour,omitempty"`
	StartTime     time.Time      `json:"startTime"`
	ZoneID        *int           `json:"zoneID,omitempty"`
	ZoneName      string         `json:"zoneName,omitempty"`
	EncounterID   *int           `json:"encounterID,omitempty"`
	EncounterName string         `json:"encounterName,omitempty"`
	Difficulty    string         `json:"difficulty,omitempty"`
	ChallengeMode *ChallengeMode `json:"challengeMode,omitempty"`
	Duration      int            `json:"duration"`
	Result        bool           `json:"result"`
	PlayerName    string         `json:"playerName,omitempty"`
	PlayerRealm   string         `json:"playerRealm,omitempty"`
	PlayerSpecID  *int           `json:"playerSpecID,omitempty"`
	TeamMMR       *int           `json:"teamMMR,omitempty"`
}

type ChallengeMode struct {
	ZoneID  int   `json:"zoneID"`
	MapID   int   `json:"mapID"`
	Level   int   `json:"level"`
	Affixes []int `json:"affixes"`
	// Duration is the in-game keystone time in seconds.
	Duration     int       `json:"duration"`
	AllottedTime []int     `json:"allottedTime,omitempty"`
	Timed        bool      `json:"timed"`
	Upgrade      int       `json:"upgrade"`
	Segments     []Segment `json:"segments"`
}

type Segment struct {
	Kind string `json:"type"`
	// Offset is seconds from the start of the recording.
	Offset        float64 `json:"timestamp"`
	EncounterID   *int    `json:"encounterID,omitempty"`
	EncounterName string  `json:"encounterName,omitempty"`
	Result        *bool   `json:"result,omitempty"`
}

func (m Metadata) ResultLabel() string {
	if m.Result {
		return "Win"
	}
	return "Loss"
}

// Title is the human readable label used for sidecar files and status views.
func (m Metadata) Title() string {
	name := m.Name
	if name == "" {
		name = m.Category
	}
	if m.ChallengeMode != nil {
		return fmt.Sprintf("%s +%d", name, m.ChallengeMode.Level)
	}
	return name
}

func IntPtr(v int) *int {
	return &v
}

func BoolPtr(v bool) *bool {
	return &v
}
