package activity

import (
	"time"

	"warcraft-recorder/internal/recorder"
)

// DungeonTimers holds the keystone time limits in seconds per map ID as
// [1 chest, 2 chest, 3 chest]. The first entry decides whether a key was timed.
var DungeonTimers = map[int][3]int{
	206: {40 * 60, 40 * 60, 40 * 60},
	377: {43 * 60, 34*60 + 25, 25*60 + 49},
	378: {32 * 60, 25*60 + 36, 19*60 + 12},
	375: {30 * 60, 24 * 60, 18 * 60},
	379: {38 * 60, 30*60 + 24, 22*60 + 38},
	380: {41 * 60, 32*60 + 48, 24*60 + 36},
	381: {39 * 60, 31*60 + 12, 23*60 + 24},
	376: {36 * 60, 28*60 + 48, 21*60 + 36},
	382: {38 * 60, 30*60 + 24, 22*60 + 38},
	227: {42 * 60, 33*60 + 36, 25*60 + 12},
	234: {35 * 60, 28 * 60, 21 * 60},
	369: {38 * 60, 30*60 + 24, 22*60 + 38},
	370: {32 * 60, 25*60 + 36, 19*60 + 12},
	391: {39 * 60, 31*60 + 12, 23*60 + 24},
	392: {30 * 60, 24 * 60, 18 * 60},
	169: {32 * 60, 25*60 + 36, 19*60 + 12},
	166: {30 * 60, 24 * 60, 18 * 60},
}

// CompletionResult returns the keystone upgrade level (0 to 3) earned by
// finishing mapID in elapsedSeconds. Unknown maps count as depleted.
func CompletionResult(mapID, elapsedSeconds int) int {
	return completionResult(DungeonTimers[mapID], elapsedSeconds)
}

func completionResult(timers [3]int, elapsedSeconds int) int {
	upgrade := 0
	for _, limit := range timers {
		if limit <= 0 || elapsedSeconds > limit {
			break
		}
		upgrade++
	}
	return upgrade
}

type SegmentKind string

const (
	SegmentTrash         SegmentKind = "Trash"
	SegmentBossEncounter SegmentKind = "Boss"
)

type Segment struct {
	Kind SegmentKind
	// Offset is seconds from the start of the run.
	Offset      float64
	LogStart    time.Time
	LogEnd      time.Time
	EncounterID int
	Result      *bool
}

// ChallengeMode is the keystone run attached to a Mythic+ activity. Its
// timeline starts with a trash segment and alternates trash and boss pulls.
type ChallengeMode struct {
	ZoneID   int
	MapID    int
	Level    int
	Affixes  []int
	Start    time.Time
	Segments []*Segment

	Duration int
	Timed    bool
	Upgrade  int
}

func NewChallengeMode(zoneID, mapID, level int, affixes []int, start time.Time) *ChallengeMode {
	cm := &ChallengeMode{
		ZoneID:  zoneID,
		MapID:   mapID,
		Level:   level,
		Affixes: append([]int(nil), affixes...),
		Start:   start,
	}
	cm.AddSegment(SegmentTrash, 0, start)
	return cm
}

// AddSegment closes the current segment at at and opens a new one.
func (cm *ChallengeMode) AddSegment(kind SegmentKind, encounterID int, at time.Time) *Segment {
	cm.EndSegment(at)
	seg := &Segment{
		Kind:        kind,
		Offset:      at.Sub(cm.Start).Seconds(),
		LogStart:    at,
		EncounterID: encounterID,
	}
	cm.Segments = append(cm.Segments, seg)
	return seg
}

func (cm *ChallengeMode) CurrentSegment() *Segment {
	if len(cm.Segments) == 0 {
		return nil
	}
	return cm.Segments[len(cm.Segments)-1]
}

func (cm *ChallengeMode) EndSegment(at time.Time) {
	if seg := cm.CurrentSegment(); seg != nil && seg.LogEnd.IsZero() {
		seg.LogEnd = at
	}
}

func (cm *ChallengeMode) LastBossEncounter() *Segment {
	for i := len(cm.Segments) - 1; i >= 0; i-- {
		if cm.Segments[i].Kind == SegmentBossEncounter {
			return cm.Segments[i]
		}
	}
	return nil
}

func (cm *ChallengeMode) RemoveLastSegment() {
	if len(cm.Segments) > 0 {
		cm.Segments = cm.Segments[:len(cm.Segments)-1]
	}
}

// Complete records the in-game completion time and derives the upgrade level.
func (cm *ChallengeMode) Complete(elapsed time.Duration) {
	cm.Duration = roundSeconds(elapsed)
	cm.Upgrade = CompletionResult(cm.MapID, cm.Duration)
	cm.Timed = cm.Upgrade > 0
}

func (cm *ChallengeMode) Metadata() *recorder.ChallengeMode {
	out := &recorder.ChallengeMode{
		ZoneID:   cm.ZoneID,
		MapID:    cm.MapID,
		Level:    cm.Level,
		Affixes:  append([]int(nil), cm.Affixes...),
		Duration: cm.Duration,
		Timed:    cm.Timed,
		Upgrade:  cm.Upgrade,
		Segments: make([]recorder.Segment, 0, len(cm.Segments)),
	}
	if timers, ok := DungeonTimers[cm.MapID]; ok {
		out.AllottedTime = timers[:]
	}
	for _, seg := range cm.Segments {
		meta := recorder.Segment{
			Kind:   string(seg.Kind),
			Offset: seg.Offset,
			Result: seg.Result,
		}
		if seg.Kind == SegmentBossEncounter {
			meta.EncounterID = recorder.IntPtr(seg.EncounterID)
			meta.EncounterName = EncounterName(seg.EncounterID)
		}
		out.Segments = append(out.Segments, meta)
	}
	return out
}

func roundSeconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}
