package combatlog

import (
	"fmt"
	"time"
)

// Event types the recorder reacts to.
const (
	EventArenaMatchStart    = "ARENA_MATCH_START"
	EventArenaMatchEnd      = "ARENA_MATCH_END"
	EventEncounterStart     = "ENCOUNTER_START"
	EventEncounterEnd       = "ENCOUNTER_END"
	EventChallengeModeStart = "CHALLENGE_MODE_START"
	EventChallengeModeEnd   = "CHALLENGE_MODE_END"
	EventZoneChange         = "ZONE_CHANGE"
	EventCombatantInfo      = "COMBATANT_INFO"
	EventSpellAuraApplied   = "SPELL_AURA_APPLIED"
	EventUnitDied           = "UNIT_DIED"
)

type ArenaMatchStart struct {
	Time    time.Time
	ZoneID  int
	Bracket string
	Rated   bool
}

type ArenaMatchEnd struct {
	Time        time.Time
	WinningTeam int
	Duration    int
	// TeamMMR holds the post-match rating of team 0 and team 1.
	TeamMMR [2]int
}

type EncounterStart struct {
	Time          time.Time
	EncounterID   int
	EncounterName string
	DifficultyID  int
	GroupSize     int
	InstanceID    int
}

type EncounterEnd struct {
	Time          time.Time
	EncounterID   int
	EncounterName string
	DifficultyID  int
	GroupSize     int
	Success       bool
}

type ChallengeModeStart struct {
	Time     time.Time
	ZoneName string
	ZoneID   int
	MapID    int
	Level    int
	Affixes  []int
}

type ChallengeModeEnd struct {
	Time       time.Time
	InstanceID int
	Success    bool
	Level      int
	// Elapsed is the in-game keystone timer, not the wall clock.
	Elapsed time.Duration
}

type ZoneChange struct {
	Time         time.Time
	ZoneID       int
	ZoneName     string
	DifficultyID int
}

type CombatantInfo struct {
	Time   time.Time
	GUID   string
	TeamID int
	SpecID int
}

type SpellAuraApplied struct {
	Time        time.Time
	SourceGUID  string
	SourceName  string
	SourceFlags uint64
}

type UnitDied struct {
	Time      time.Time
	DestGUID  string
	DestName  string
	DestFlags uint64
}

// fieldReader pulls typed values out of a line and keeps the first error so
// event constructors read as a flat list of field indices.
type fieldReader struct {
	line *LogLine
	err  error
}

func (r *fieldReader) field(i int) (Field, bool) {
	if r.err != nil {
		return Field{}, false
	}
	f, err := r.line.Arg(i)
	if err != nil {
		r.err = fmt.Errorf("%s field %d: %w", r.line.Type(), i, err)
		return Field{}, false
	}
	return f, true
}

func (r *fieldReader) fail(i int, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s field %d: %w: %v", r.line.Type(), i, ErrMalformedLogLine, err)
	}
}

func (r *fieldReader) str(i int) string {
	f, ok := r.field(i)
	if !ok {
		return ""
	}
	return f.String()
}

func (r *fieldReader) num(i int) int {
	f, ok := r.field(i)
	if !ok {
		return 0
	}
	n, err := f.Int()
	if err != nil {
		r.fail(i, err)
	}
	return n
}

func (r *fieldReader) num64(i int) int64 {
	f, ok := r.field(i)
	if !ok {
		return 0
	}
	n, err := f.Int64()
	if err != nil {
		r.fail(i, err)
	}
	return n
}

func (r *fieldReader) flag(i int) bool {
	f, ok := r.field(i)
	if !ok {
		return false
	}
	b, err := f.Bool()
	if err != nil {
		r.fail(i, err)
	}
	return b
}

func (r *fieldReader) bitmask(i int) uint64 {
	f, ok := r.field(i)
	if !ok {
		return 0
	}
	n, err := f.Hex()
	if err != nil {
		r.fail(i, err)
	}
	return n
}

func (r *fieldReader) nums(i int) []int {
	f, ok := r.field(i)
	if !ok {
		return nil
	}
	values, err := f.Ints()
	if err != nil {
		r.fail(i, err)
	}
	return values
}

func (r *fieldReader) timestamp(now time.Time) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	ts, err := r.line.Time(now)
	if err != nil {
		r.err = fmt.Errorf("%s timestamp: %w", r.line.Type(), err)
	}
	return ts
}

func ParseArenaMatchStart(line *LogLine, now time.Time) (ArenaMatchStart, error) {
	r := fieldReader{line: line}
	ev := ArenaMatchStart{
		Time:    r.timestamp(now),
		ZoneID:  r.num(1),
		Bracket: r.str(3),
		Rated:   r.flag(4),
	}
	return ev, r.err
}

func ParseArenaMatchEnd(line *LogLine, now time.Time) (ArenaMatchEnd, error) {
	r := fieldReader{line: line}
	ev := ArenaMatchEnd{
		Time:        r.timestamp(now),
		WinningTeam: r.num(1),
		Duration:    r.num(2),
		TeamMMR:     [2]int{r.num(3), r.num(4)},
	}
	return ev, r.err
}

func ParseEncounterStart(line *LogLine, now time.Time) (EncounterStart, error) {
	r := fieldReader{line: line}
	ev := EncounterStart{
		Time:          r.timestamp(now),
		EncounterID:   r.num(1),
		EncounterName: r.str(2),
		DifficultyID:  r.num(3),
		GroupSize:     r.num(4),
		InstanceID:    r.num(5),
	}
	return ev, r.err
}

func ParseEncounterEnd(line *LogLine, now time.Time) (EncounterEnd, error) {
	r := fieldReader{line: line}
	ev := EncounterEnd{
		Time:          r.timestamp(now),
		EncounterID:   r.num(1),
		EncounterName: r.str(2),
		DifficultyID:  r.num(3),
		GroupSize:     r.num(4),
		Success:       r.flag(5),
	}
	return ev, r.err
}

func ParseChallengeModeStart(line *LogLine, now time.Time) (ChallengeModeStart, error) {
	r := fieldReader{line: line}
	ev := ChallengeModeStart{
		Time:     r.timestamp(now),
		ZoneName: r.str(1),
		ZoneID:   r.num(2),
		MapID:    r.num(3),
		Level:    r.num(4),
		Affixes:  r.nums(5),
	}
	return ev, r.err
}

func ParseChallengeModeEnd(line *LogLine, now time.Time) (ChallengeModeEnd, error) {
	r := fieldReader{line: line}
	ev := ChallengeModeEnd{
		Time:       r.timestamp(now),
		InstanceID: r.num(1),
		Success:    r.flag(2),
		Level:      r.num(3),
		Elapsed:    time.Duration(r.num64(4)) * time.Millisecond,
	}
	return ev, r.err
}

func ParseZoneChange(line *LogLine, now time.Time) (ZoneChange, error) {
	r := fieldReader{line: line}
	ev := ZoneChange{
		Time:         r.timestamp(now),
		ZoneID:       r.num(1),
		ZoneName:     r.str(2),
		DifficultyID: r.num(3),
	}
	return ev, r.err
}

// ParseCombatantInfo reads only the identity prefix and the spec ID; the
// talent and gear lists in between are tokenized but never converted.
func ParseCombatantInfo(line *LogLine, now time.Time) (CombatantInfo, error) {
	r := fieldReader{line: line}
	ev := CombatantInfo{
		Time:   r.timestamp(now),
		GUID:   r.str(1),
		TeamID: r.num(2),
		SpecID: r.num(24),
	}
	return ev, r.err
}

func ParseSpellAuraApplied(line *LogLine, now time.Time) (SpellAuraApplied, error) {
	r := fieldReader{line: line}
	ev := SpellAuraApplied{
		Time:        r.timestamp(now),
		SourceGUID:  r.str(1),
		SourceName:  r.str(2),
		SourceFlags: r.bitmask(3),
	}
	return ev, r.err
}

func ParseUnitDied(line *LogLine, now time.Time) (UnitDied, error) {
	r := fieldReader{line: line}
	ev := UnitDied{
		Time:      r.timestamp(now),
		DestGUID:  r.str(5),
		DestName:  r.str(6),
		DestFlags: r.bitmask(7),
	}
	return ev, r.err
}
